package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/pkg/code"
)

// ModuleBackend computes a derived view over a notebook's nodes. The
// output is a JSON document stored on the module row.
type ModuleBackend interface {
	Kind() string
	Run(ctx context.Context, module *domain.Module, nodes []*domain.Node) (string, error)
}

// moduleBackends is the registry of known backend kinds.
var moduleBackends = map[string]ModuleBackend{
	"vocabulary": &vocabularyBackend{},
	"timeline":   &timelineBackend{},
}

// ModuleBackends lists the registered backend kinds, sorted.
func ModuleBackends() []string {
	kinds := make([]string, 0, len(moduleBackends))
	for kind := range moduleBackends {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// LookupModuleBackend resolves a backend by kind.
func LookupModuleBackend(kind string) (ModuleBackend, error) {
	backend, ok := moduleBackends[kind]
	if !ok {
		return nil, code.ErrorModuleUnknownKind
	}
	return backend, nil
}

// ---------------- vocabulary ----------------

type vocabularyConfig struct {
	TopN      int `json:"topN"`
	MinLength int `json:"minLength"`
}

type vocabularyTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type vocabularyOutput struct {
	Terms      []vocabularyTerm `json:"terms"`
	TotalWords int              `json:"totalWords"`
	NodeCount  int              `json:"nodeCount"`
}

// vocabularyBackend counts term frequencies across all node contents.
type vocabularyBackend struct{}

func (b *vocabularyBackend) Kind() string { return "vocabulary" }

func (b *vocabularyBackend) Run(ctx context.Context, module *domain.Module, nodes []*domain.Node) (string, error) {
	cfg := vocabularyConfig{TopN: 50, MinLength: 3}
	if module.Config != "" {
		if err := json.Unmarshal([]byte(module.Config), &cfg); err != nil {
			return "", err
		}
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 50
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = 3
	}

	counts := make(map[string]int)
	total := 0
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for _, word := range splitWords(node.Content) {
			total++
			if len([]rune(word)) < cfg.MinLength {
				continue
			}
			counts[strings.ToLower(word)]++
		}
	}

	terms := make([]vocabularyTerm, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, vocabularyTerm{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > cfg.TopN {
		terms = terms[:cfg.TopN]
	}

	out, err := json.Marshal(vocabularyOutput{
		Terms:      terms,
		TotalWords: total,
		NodeCount:  len(nodes),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitWords(content string) []string {
	return strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ---------------- timeline ----------------

type timelineConfig struct {
	// Field picks which timestamp buckets the nodes: created or updated.
	Field string `json:"field"`
}

type timelineEntry struct {
	Date  string   `json:"date"`
	Count int      `json:"count"`
	GUIDs []string `json:"guids"`
}

type timelineOutput struct {
	Field   string          `json:"field"`
	Entries []timelineEntry `json:"entries"`
}

// timelineBackend buckets nodes into calendar days.
type timelineBackend struct{}

func (b *timelineBackend) Kind() string { return "timeline" }

func (b *timelineBackend) Run(ctx context.Context, module *domain.Module, nodes []*domain.Node) (string, error) {
	cfg := timelineConfig{Field: "created"}
	if module.Config != "" {
		if err := json.Unmarshal([]byte(module.Config), &cfg); err != nil {
			return "", err
		}
	}
	if cfg.Field != "updated" {
		cfg.Field = "created"
	}

	buckets := make(map[string][]string)
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		at := node.CreatedAt
		if cfg.Field == "updated" {
			at = node.UpdatedAt
		}
		day := at.Format("2006-01-02")
		buckets[day] = append(buckets[day], node.GUID)
	}

	entries := make([]timelineEntry, 0, len(buckets))
	for day, guids := range buckets {
		sort.Strings(guids)
		entries = append(entries, timelineEntry{Date: day, Count: len(guids), GUIDs: guids})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})

	out, err := json.Marshal(timelineOutput{Field: cfg.Field, Entries: entries})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

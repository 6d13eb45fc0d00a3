package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/notefield/notebook-service/internal/domain"
)

func TestVocabularyBackend(t *testing.T) {
	ctx := context.Background()
	backend := &vocabularyBackend{}

	tests := []struct {
		name       string
		config     string
		nodes      []*domain.Node
		wantTerms  []vocabularyTerm
		wantTotal  int
		wantNodeCt int
	}{
		{
			name: "counts across nodes case insensitive",
			nodes: []*domain.Node{
				{Content: "Alpha beta alpha"},
				{Content: "beta gamma"},
			},
			wantTerms: []vocabularyTerm{
				{Term: "alpha", Count: 2},
				{Term: "beta", Count: 2},
				{Term: "gamma", Count: 1},
			},
			wantTotal:  5,
			wantNodeCt: 2,
		},
		{
			name:   "min length filters short words but counts them in total",
			config: `{"minLength":5}`,
			nodes: []*domain.Node{
				{Content: "tiny words survive longer phrases"},
			},
			wantTerms: []vocabularyTerm{
				{Term: "longer", Count: 1},
				{Term: "phrases", Count: 1},
				{Term: "survive", Count: 1},
				{Term: "words", Count: 1},
			},
			wantTotal:  5,
			wantNodeCt: 1,
		},
		{
			name:   "topN truncates after sorting",
			config: `{"topN":1}`,
			nodes: []*domain.Node{
				{Content: "one two two"},
			},
			wantTerms:  []vocabularyTerm{{Term: "two", Count: 2}},
			wantTotal:  3,
			wantNodeCt: 1,
		},
		{
			name:       "empty notebook",
			nodes:      nil,
			wantTerms:  []vocabularyTerm{},
			wantTotal:  0,
			wantNodeCt: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := backend.Run(ctx, &domain.Module{Config: tt.config}, tt.nodes)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			var got vocabularyOutput
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output is not valid JSON: %v", err)
			}

			if got.TotalWords != tt.wantTotal {
				t.Errorf("TotalWords = %d, want %d", got.TotalWords, tt.wantTotal)
			}
			if got.NodeCount != tt.wantNodeCt {
				t.Errorf("NodeCount = %d, want %d", got.NodeCount, tt.wantNodeCt)
			}
			if len(got.Terms) != len(tt.wantTerms) {
				t.Fatalf("Terms = %v, want %v", got.Terms, tt.wantTerms)
			}
			for i, term := range tt.wantTerms {
				if got.Terms[i] != term {
					t.Errorf("Terms[%d] = %v, want %v", i, got.Terms[i], term)
				}
			}
		})
	}
}

func TestTimelineBackend(t *testing.T) {
	ctx := context.Background()
	backend := &timelineBackend{}

	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	nodes := []*domain.Node{
		{GUID: "b", CreatedAt: day1, UpdatedAt: day2},
		{GUID: "a", CreatedAt: day1, UpdatedAt: day1},
		{GUID: "c", CreatedAt: day2, UpdatedAt: day2},
	}

	t.Run("buckets by created date, newest first", func(t *testing.T) {
		out, err := backend.Run(ctx, &domain.Module{}, nodes)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		var got timelineOutput
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if got.Field != "created" {
			t.Errorf("Field = %q, want created", got.Field)
		}
		if len(got.Entries) != 2 {
			t.Fatalf("Entries = %v, want 2 days", got.Entries)
		}
		if got.Entries[0].Date != "2026-03-02" || got.Entries[0].Count != 1 {
			t.Errorf("Entries[0] = %v, want 2026-03-02 with 1 node", got.Entries[0])
		}
		if got.Entries[1].Date != "2026-03-01" || got.Entries[1].Count != 2 {
			t.Errorf("Entries[1] = %v, want 2026-03-01 with 2 nodes", got.Entries[1])
		}
		// GUIDs inside a day are sorted for stable output.
		if got.Entries[1].GUIDs[0] != "a" || got.Entries[1].GUIDs[1] != "b" {
			t.Errorf("GUIDs = %v, want [a b]", got.Entries[1].GUIDs)
		}
	})

	t.Run("updated field via config", func(t *testing.T) {
		out, err := backend.Run(ctx, &domain.Module{Config: `{"field":"updated"}`}, nodes)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		var got timelineOutput
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Field != "updated" {
			t.Errorf("Field = %q, want updated", got.Field)
		}
		if len(got.Entries) != 2 {
			t.Fatalf("Entries = %v, want 2 days", got.Entries)
		}
		if got.Entries[0].Count != 2 {
			t.Errorf("newest day count = %d, want 2", got.Entries[0].Count)
		}
	})

	t.Run("unknown field falls back to created", func(t *testing.T) {
		out, err := backend.Run(ctx, &domain.Module{Config: `{"field":"bogus"}`}, nodes)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		var got timelineOutput
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Field != "created" {
			t.Errorf("Field = %q, want created", got.Field)
		}
	})
}

func TestLookupModuleBackend(t *testing.T) {
	for _, kind := range []string{"vocabulary", "timeline"} {
		backend, err := LookupModuleBackend(kind)
		if err != nil {
			t.Errorf("LookupModuleBackend(%q) failed: %v", kind, err)
			continue
		}
		if backend.Kind() != kind {
			t.Errorf("Kind() = %q, want %q", backend.Kind(), kind)
		}
	}

	if _, err := LookupModuleBackend("astrology"); err == nil {
		t.Error("expected unknown kind to fail")
	}
}

// The vocabulary output must be deterministic and ordered by count, then
// term, whatever the input content looks like.
func TestPropertyVocabularyDeterministicOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("ordered and stable", prop.ForAll(
		func(words []string) bool {
			backend := &vocabularyBackend{}
			node := &domain.Node{Content: strings.Join(words, " ")}
			module := &domain.Module{Config: `{"minLength":1}`}

			first, err := backend.Run(context.Background(), module, []*domain.Node{node})
			if err != nil {
				t.Logf("Run failed: %v", err)
				return false
			}
			second, err := backend.Run(context.Background(), module, []*domain.Node{node})
			if err != nil {
				t.Logf("Run failed: %v", err)
				return false
			}
			if first != second {
				t.Log("two runs over the same content differ")
				return false
			}

			var got vocabularyOutput
			if err := json.Unmarshal([]byte(first), &got); err != nil {
				t.Logf("bad JSON: %v", err)
				return false
			}
			for i := 1; i < len(got.Terms); i++ {
				prev, cur := got.Terms[i-1], got.Terms[i]
				if prev.Count < cur.Count {
					t.Logf("counts out of order at %d: %v %v", i, prev, cur)
					return false
				}
				if prev.Count == cur.Count && prev.Term >= cur.Term {
					t.Logf("terms out of order at %d: %v %v", i, prev, cur)
					return false
				}
			}
			for _, term := range got.Terms {
				if term.Count < 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 })),
	))

	properties.TestingRun(t)
}

func TestModuleBackendsListing(t *testing.T) {
	kinds := ModuleBackends()
	want := []string{"timeline", "vocabulary"}
	if len(kinds) != len(want) {
		t.Fatalf("backends = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("backends[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
	for _, kind := range kinds {
		if _, err := LookupModuleBackend(kind); err != nil {
			t.Errorf("listed kind %q does not resolve: %v", kind, err)
		}
	}
}

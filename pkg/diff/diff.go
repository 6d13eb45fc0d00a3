// Package diff implements text comparison for sync merging and for scoring
// how far a copied node has diverged from its source.
package diff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Similarity returns how alike two texts are, in [0, 1]. 1 means identical.
// Based on the Levenshtein distance of the character diff.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	score := 1 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// OriginalityScore measures how much derived diverges from source, in
// [0, 1]. A verbatim copy scores 0, a full rewrite approaches 1.
func OriginalityScore(source, derived string) float64 {
	return 1 - Similarity(source, derived)
}

// Patch returns a textual patch turning before into after, in the
// unidiff-like format of diff-match-patch. Used for compact revision
// storage.
func Patch(before, after string) string {
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(before, after))
}

// MergeTexts three-way merges two edits of the same base. Deletions are
// dropped from both patch sets so concurrent edits cannot silently remove
// each other's text. aFirst picks which side's patches apply first.
func MergeTexts(base, a, b string, aFirst bool) (merged string, success bool) {
	dmp := diffmatchpatch.New()

	aPatches := dmp.PatchMake(base, withoutDeletes(dmp.DiffMain(base, a, false)))
	bPatches := dmp.PatchMake(base, withoutDeletes(dmp.DiffMain(base, b, false)))

	var step1 string
	var applied1, applied2 []bool

	if aFirst {
		step1, applied1 = dmp.PatchApply(aPatches, base)
		merged, applied2 = dmp.PatchApply(bPatches, step1)
	} else {
		step1, applied1 = dmp.PatchApply(bPatches, base)
		merged, applied2 = dmp.PatchApply(aPatches, step1)
	}

	success = true
	for _, ok := range applied1 {
		if !ok {
			success = false
		}
	}
	for _, ok := range applied2 {
		if !ok {
			success = false
		}
	}
	return merged, success
}

func withoutDeletes(diffs []diffmatchpatch.Diff) []diffmatchpatch.Diff {
	out := make([]diffmatchpatch.Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffDelete {
			out = append(out, d)
		}
	}
	return out
}

// Package correlate pairs manifest rows with uploaded image assets using
// filename heuristics.
//
// Rows are matched in manifest order and each asset is consumed by at most one
// row, so the outcome depends on row order when several rows could claim the
// same file.
package correlate

import (
	"strconv"
	"strings"

	"mintforge/internal/assets"
	"mintforge/internal/manifest"
)

// Rule names the heuristic that produced a pair.
type Rule string

const (
	RuleName     Rule = "name"
	RuleFilename Rule = "filename"
	RulePosition Rule = "position"
	RuleTokenID  Rule = "token_id"
)

// Pair is one row bound to the asset it will mint.
type Pair struct {
	Row   manifest.Row
	Asset assets.File
	Rule  Rule
}

// Result holds the pairs in row order plus the rows no asset matched.
type Result struct {
	Pairs     []Pair
	Unmatched []manifest.Row
}

// UnmatchedIndices returns the 1-based indices of the skipped rows.
func (r Result) UnmatchedIndices() []int {
	out := make([]int, 0, len(r.Unmatched))
	for _, row := range r.Unmatched {
		out = append(out, row.Index)
	}
	return out
}

// UnusedAssets returns the images from files that no row claimed.
func (r Result) UnusedAssets(files []assets.File) []assets.File {
	used := make(map[string]int, len(r.Pairs))
	for _, pair := range r.Pairs {
		used[pair.Asset.Name]++
	}
	var out []assets.File
	for _, f := range files {
		if !f.IsImage() {
			continue
		}
		if used[f.Name] > 0 {
			used[f.Name]--
			continue
		}
		out = append(out, f)
	}
	return out
}

type candidate struct {
	file  assets.File
	lower string
}

// Correlate matches each row to at most one image asset. Non-image files are
// ignored. Per row, the first rule that finds an unclaimed asset whose name
// contains the criterion (case-insensitively) wins: name, filename, 1-based
// position, then token_id. Empty criteria never match.
func Correlate(rows []manifest.Row, files []assets.File) Result {
	pool := make([]candidate, 0, len(files))
	for _, f := range files {
		if f.IsImage() {
			pool = append(pool, candidate{file: f, lower: strings.ToLower(f.Name)})
		}
	}

	result := Result{Pairs: make([]Pair, 0, len(rows))}
	for _, row := range rows {
		idx, rule := match(row, pool)
		if idx < 0 {
			result.Unmatched = append(result.Unmatched, row)
			continue
		}
		result.Pairs = append(result.Pairs, Pair{Row: row, Asset: pool[idx].file, Rule: rule})
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return result
}

func match(row manifest.Row, pool []candidate) (int, Rule) {
	criteria := []struct {
		rule  Rule
		value string
	}{
		{RuleName, row.Get(manifest.FieldName)},
		{RuleFilename, row.Get(manifest.FieldFilename)},
		{RulePosition, strconv.Itoa(row.Index)},
		{RuleTokenID, row.Get(manifest.FieldTokenID)},
	}
	for _, c := range criteria {
		needle := strings.ToLower(strings.TrimSpace(c.value))
		if needle == "" {
			continue
		}
		for i, cand := range pool {
			if strings.Contains(cand.lower, needle) {
				return i, c.rule
			}
		}
	}
	return -1, ""
}

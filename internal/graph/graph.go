// Package graph builds the dependency graph between calculated fields and
// detects reference cycles before a field definition is saved.
package graph

import (
	"sort"

	"github.com/sells-group/fieldcalc/internal/engine"
	"github.com/sells-group/fieldcalc/internal/model"
)

// CycleResult reports whether the field set contains a circular reference
// chain. Path is the ordered cycle starting at the repeated field, e.g.
// [a, b] for a -> b -> a.
type CycleResult struct {
	HasCycle bool
	Path     []string
}

// Build extracts the dependency edges between calculated fields: an edge
// from A to B exists iff B's slug appears as a field token in A's formula.
// Edges are restricted to slugs that are themselves calculated fields; raw
// record attributes cannot form cycles. A proposed new or edited field
// replaces any existing field with the same slug, so definitions can be
// checked before they are persisted.
func Build(fields []model.CalculatedField, proposed *model.CalculatedField) map[string][]string {
	combined := make([]model.CalculatedField, 0, len(fields)+1)
	for _, f := range fields {
		if proposed != nil && f.Slug == proposed.Slug {
			continue
		}
		combined = append(combined, f)
	}
	if proposed != nil {
		combined = append(combined, *proposed)
	}

	slugs := make(map[string]bool, len(combined))
	for _, f := range combined {
		slugs[f.Slug] = true
	}

	deps := make(map[string][]string, len(combined))
	for _, f := range combined {
		deps[f.Slug] = referencedFields(f.Formula, slugs)
	}
	return deps
}

// referencedFields returns the calculated-field slugs referenced in a
// formula, deduplicated, in first-appearance order.
func referencedFields(formula string, slugs map[string]bool) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, tok := range engine.Tokenize(formula) {
		if tok.Type != engine.TokenField {
			continue
		}
		if !slugs[tok.Text] || seen[tok.Text] {
			continue
		}
		seen[tok.Text] = true
		refs = append(refs, tok.Text)
	}
	return refs
}

// DetectCycle searches the dependency graph of the given fields (plus an
// optional proposed field) for cycles of any length, including direct
// self-reference.
func DetectCycle(fields []model.CalculatedField, proposed *model.CalculatedField) CycleResult {
	deps := Build(fields, proposed)

	// Iterate in sorted order so the reported cycle is deterministic.
	slugs := make([]string, 0, len(deps))
	for slug := range deps {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	visited := make(map[string]bool, len(deps))
	onStack := make(map[string]bool, len(deps))
	var stack []string

	var visit func(slug string) []string
	visit = func(slug string) []string {
		visited[slug] = true
		onStack[slug] = true
		stack = append(stack, slug)

		for _, dep := range deps[slug] {
			if onStack[dep] {
				// Back-edge: the cycle is the stack from the repeated
				// field onward.
				for i, s := range stack {
					if s == dep {
						return append([]string(nil), stack[i:]...)
					}
				}
			}
			if !visited[dep] {
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[slug] = false
		return nil
	}

	for _, slug := range slugs {
		if visited[slug] {
			continue
		}
		if cycle := visit(slug); cycle != nil {
			return CycleResult{HasCycle: true, Path: cycle}
		}
	}
	return CycleResult{}
}

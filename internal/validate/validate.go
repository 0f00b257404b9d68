// Package validate performs the strict, pre-save checks on calculated-field
// formulas. Validation never executes a formula: a formula can validate and
// still resolve an unknown field at evaluation time, where it defaults to 0.
package validate

import (
	"fmt"
	"strings"

	"github.com/sells-group/fieldcalc/internal/engine"
	"github.com/sells-group/fieldcalc/internal/graph"
	"github.com/sells-group/fieldcalc/internal/model"
)

// Result is the structured outcome surfaced to the field-authoring UI.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

var aggregateFunctions = []string{"SUM", "AVG", "COUNT", "MIN", "MAX"}

var dateFunctions = []string{"DAYS_SINCE", "DAYS_BETWEEN", "MONTHS_SINCE", "HOURS_SINCE"}

// Formula checks a formula for syntax and type-specific problems. When an
// existing-field list and the current field's slug are supplied, the
// current field is replaced by the proposed edit and the combined set is
// checked for circular references.
func Formula(formula string, ftype model.FormulaType, existing []model.CalculatedField, currentSlug string) Result {
	if strings.TrimSpace(formula) == "" {
		return invalid("formula is empty")
	}

	if err := checkParens(formula); err != "" {
		return invalid(err)
	}

	switch ftype {
	case model.TypeAggregation:
		if !containsFunction(formula, aggregateFunctions) {
			return invalid("aggregation formula must use one of SUM, AVG, COUNT, MIN, MAX")
		}
	case model.TypeDateDiff:
		if !containsFunction(formula, dateFunctions) {
			return invalid("date_diff formula must use one of DAYS_SINCE, DAYS_BETWEEN, MONTHS_SINCE, HOURS_SINCE")
		}
	}

	if currentSlug != "" {
		proposed := &model.CalculatedField{
			Slug:        currentSlug,
			Formula:     formula,
			FormulaType: ftype,
		}
		if res := graph.DetectCycle(existing, proposed); res.HasCycle {
			return invalid(fmt.Sprintf("circular dependency: %s", formatCycle(res.Path)))
		}
	}

	return Result{Valid: true}
}

// checkParens verifies the running paren depth never goes negative and
// ends at zero. Returns an empty string when balanced.
func checkParens(formula string) string {
	depth := 0
	for i := 0; i < len(formula); i++ {
		switch formula[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "unbalanced parentheses: unexpected )"
			}
		}
	}
	if depth != 0 {
		return "unbalanced parentheses: missing )"
	}
	return ""
}

// containsFunction reports whether the formula calls any of the named
// functions, checked on the token stream so field names that merely embed
// a function name do not count.
func containsFunction(formula string, names []string) bool {
	for _, tok := range engine.Tokenize(formula) {
		if tok.Type != engine.TokenFunction {
			continue
		}
		for _, name := range names {
			if tok.Text == name {
				return true
			}
		}
	}
	return false
}

// formatCycle renders a cycle path closing back on its first field, e.g.
// "a -> b -> a".
func formatCycle(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return strings.Join(append(append([]string(nil), path...), path[0]), " -> ")
}

func invalid(msg string) Result {
	return Result{Valid: false, Error: msg}
}

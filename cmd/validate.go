package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/fieldcalc/internal/model"
	"github.com/sells-group/fieldcalc/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a proposed formula before saving",
	Long: `Validate a new or edited calculated-field formula: non-empty,
balanced parentheses, type-required functions, and no circular
dependencies against the existing catalogue. Prints the structured result
and exits non-zero when the formula is invalid.

Examples:
  fieldcalc validate --formula "SUM(amount)" --type aggregation
  fieldcalc validate --catalog fields.yaml --slug close_rate \
    --formula "won_deals / COUNT('*') * 100" --type expression`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.String("formula", "", "formula text to validate (required)")
	f.String("type", string(model.TypeExpression), "formula type: expression, aggregation, conditional, date_diff")
	f.String("slug", "", "slug of the field being created or edited (enables cycle checking)")
	f.String("catalog", "", "path to the existing field catalogue YAML")
	_ = validateCmd.MarkFlagRequired("formula")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	formula, _ := f.GetString("formula")
	ftype, _ := f.GetString("type")
	slug, _ := f.GetString("slug")
	catalogPath, _ := f.GetString("catalog")

	var existing []model.CalculatedField
	if catalogPath != "" {
		catalog, err := model.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		existing = catalog.Fields
	}

	result := validate.Formula(formula, model.FormulaType(ftype), existing, slug)
	if err := printJSON(os.Stdout, result); err != nil {
		return err
	}
	if !result.Valid {
		cmd.SilenceUsage = true
		return eris.New("formula is invalid")
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/fieldcalc/internal/model"
	"github.com/sells-group/fieldcalc/internal/validate"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the field catalogue with validation status",
	Long: `List every calculated field in the catalogue along with its type,
time scope, active flag, and validation status (including dependency
cycles across the whole catalogue).`,
	RunE: runFields,
}

func init() {
	f := fieldsCmd.Flags()
	f.String("catalog", "", "path to the field catalogue YAML (required)")
	f.String("format", "table", "output format: table or json")
	_ = fieldsCmd.MarkFlagRequired("catalog")

	rootCmd.AddCommand(fieldsCmd)
}

// fieldStatus is one catalogue row in the listing.
type fieldStatus struct {
	Slug        string            `json:"slug"`
	FormulaType model.FormulaType `json:"formula_type"`
	TimeScope   model.TimeScope   `json:"time_scope"`
	Active      bool              `json:"active"`
	Formula     string            `json:"formula"`
	Valid       bool              `json:"valid"`
	Error       string            `json:"error,omitempty"`
}

func runFields(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	catalogPath, _ := f.GetString("catalog")
	format, _ := f.GetString("format")

	catalog, err := model.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	statuses := make([]fieldStatus, 0, len(catalog.Fields))
	for _, field := range catalog.Fields {
		res := validate.Formula(field.Formula, field.FormulaType, catalog.Fields, field.Slug)
		statuses = append(statuses, fieldStatus{
			Slug:        field.Slug,
			FormulaType: field.FormulaType,
			TimeScope:   field.TimeScope,
			Active:      field.Active,
			Formula:     field.Formula,
			Valid:       res.Valid,
			Error:       res.Error,
		})
	}

	if format == "json" {
		return printJSON(os.Stdout, statuses)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tTYPE\tSCOPE\tACTIVE\tVALID\tERROR")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%s\n",
			s.Slug, s.FormulaType, s.TimeScope, s.Active, s.Valid, s.Error)
	}
	return w.Flush()
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Compute every active field for one record",
	Long: `Compute all active calculated fields for a single record.

Aggregation fields are computed over the record set narrowed to the
field's own time scope; expression, conditional, and date_diff fields are
computed against the chosen record with the full set available for inline
aggregates.

Examples:
  # Compute fields for the first record
  fieldcalc eval --catalog fields.yaml --records deals.yaml

  # Pin the evaluation instant for a reproducible run
  fieldcalc eval --catalog fields.yaml --records deals.yaml --now 2026-03-01T09:00:00Z

  # A different timestamp attribute for time scoping
  fieldcalc eval --catalog fields.yaml --records calls.yaml --date-field started_at`,
	RunE: runEval,
}

func init() {
	f := evalCmd.Flags()
	f.String("catalog", "", "path to the field catalogue YAML (required)")
	f.String("records", "", "path to the record set YAML (required)")
	f.Int("record", 0, "index of the record to evaluate")
	f.String("date-field", "", "record attribute holding the timestamp (default from config)")
	f.String("now", "", "evaluation instant, RFC3339 or YYYY-MM-DD (default: system clock)")
	f.String("format", "table", "output format: table or json")
	_ = evalCmd.MarkFlagRequired("catalog")
	_ = evalCmd.MarkFlagRequired("records")

	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	catalogPath, _ := f.GetString("catalog")
	recordsPath, _ := f.GetString("records")
	idx, _ := f.GetInt("record")
	dateField, _ := f.GetString("date-field")
	nowArg, _ := f.GetString("now")
	format, _ := f.GetString("format")

	if dateField == "" {
		dateField = cfg.Engine.DateField
	}

	catalog, records, err := loadInputs(catalogPath, recordsPath)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(records) {
		return eris.Errorf("record index %d out of range (have %d records)", idx, len(records))
	}

	now, err := parseNow(nowArg)
	if err != nil {
		return err
	}

	values := newEvaluator().EvaluateAll(catalog.Active(), records[idx], records, dateField, now)

	if format == "json" {
		return printJSON(os.Stdout, values)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE")
	for _, slug := range sortedSlugs(values) {
		fmt.Fprintf(w, "%s\t%s\n", slug, formatValue(values[slug]))
	}
	return w.Flush()
}

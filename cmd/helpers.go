package main

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fieldcalc/internal/engine"
	"github.com/sells-group/fieldcalc/internal/model"
)

// newEvaluator builds the engine from loaded configuration, wiring the
// global logger in as the diagnostics sink.
func newEvaluator() *engine.Evaluator {
	return engine.New(
		engine.WithLogger(zap.L()),
		engine.WithMaxDepth(cfg.Engine.MaxDepth),
	)
}

// loadInputs reads the field catalogue and record set.
func loadInputs(catalogPath, recordsPath string) (*model.Catalog, []model.Record, error) {
	catalog, err := model.LoadCatalog(catalogPath)
	if err != nil {
		return nil, nil, err
	}
	records, err := model.LoadRecords(recordsPath)
	if err != nil {
		return nil, nil, err
	}
	return catalog, records, nil
}

// parseNow resolves the evaluation instant. An empty value means the
// system clock; otherwise RFC3339 or a plain date is accepted, so runs can
// be made deterministic.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("invalid --now value %q (want RFC3339 or YYYY-MM-DD)", s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}

// sortedSlugs returns the keys of a computed row in stable order.
func sortedSlugs(values map[string]any) []string {
	slugs := make([]string, 0, len(values))
	for slug := range values {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// formatValue renders a computed value for table output.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fieldcalc/internal/model"
)

// EvaluateField computes one calculated field for one record.
//
// Expression, conditional, and date_diff fields evaluate against the
// record with the full unfiltered record set available for inline
// aggregate sub-calls. Aggregation fields first narrow the record set by
// the field's own time scope (using dateField as the record timestamp)
// and evaluate with an empty current record.
func (e *Evaluator) EvaluateField(f *model.CalculatedField, rec model.Record, records []model.Record, dateField string, now time.Time) (any, error) {
	ctx := &Context{Record: rec, Records: records, Now: now}
	if f.IsAggregation() {
		ctx.Record = model.Record{}
		ctx.Records = FilterByScope(records, f.TimeScope, dateField, now)
	}
	return e.Evaluate(f.Formula, ctx)
}

// EvaluateAll computes every given field for a record and returns one
// slug-to-value mapping. A failing field is logged and recorded as null;
// it never aborts the rest of the batch.
func (e *Evaluator) EvaluateAll(fields []*model.CalculatedField, rec model.Record, records []model.Record, dateField string, now time.Time) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := e.EvaluateField(f, rec, records, dateField, now)
		if err != nil {
			e.log.Warn("engine: field evaluation failed",
				zap.String("slug", f.Slug),
				zap.Error(err),
			)
			values[f.Slug] = nil
			continue
		}
		values[f.Slug] = v
	}
	return values
}

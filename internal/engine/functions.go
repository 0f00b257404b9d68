package engine

import (
	"math"

	"go.uber.org/zap"
)

// callArg is one eagerly evaluated function argument. name is set when the
// argument was a bare field reference or string literal, which is how
// aggregate functions learn which field to reduce.
type callArg struct {
	value any
	name  string
}

// callFunction dispatches a built-in function. Unknown names are logged
// and evaluate to null; no function ever fails the surrounding formula.
func (e *Evaluator) callFunction(name string, args []callArg, ctx *Context) any {
	switch name {
	case "ABS":
		return math.Abs(argNumber(args, 0))
	case "ROUND":
		return math.Round(argNumber(args, 0))
	case "FLOOR":
		return math.Floor(argNumber(args, 0))
	case "CEIL":
		return math.Ceil(argNumber(args, 0))

	case "COALESCE":
		for _, a := range args {
			if a.value == nil {
				continue
			}
			if s, ok := a.value.(string); ok && s == "" {
				continue
			}
			return a.value
		}
		return nil

	case "IF", "CASE":
		// Arguments were evaluated eagerly, so both branches are already
		// computed; this only selects one.
		if truthy(argValue(args, 0)) {
			return argValue(args, 1)
		}
		return argValue(args, 2)

	case "DAYS_SINCE":
		t, ok := parseTime(argValue(args, 0), ctx.Now.Location())
		if !ok {
			return nil
		}
		return math.Floor(ctx.Now.Sub(t).Hours() / 24)

	case "DAYS_BETWEEN":
		from, ok := parseTime(argValue(args, 0), ctx.Now.Location())
		if !ok {
			return nil
		}
		to, ok := parseTime(argValue(args, 1), ctx.Now.Location())
		if !ok {
			return nil
		}
		return math.Floor(to.Sub(from).Hours() / 24)

	case "HOURS_SINCE":
		t, ok := parseTime(argValue(args, 0), ctx.Now.Location())
		if !ok {
			return nil
		}
		return math.Floor(ctx.Now.Sub(t).Hours())

	case "MONTHS_SINCE":
		// Pure calendar-field subtraction, not day-sensitive.
		t, ok := parseTime(argValue(args, 0), ctx.Now.Location())
		if !ok {
			return nil
		}
		return float64((ctx.Now.Year()-t.Year())*12 + int(ctx.Now.Month()) - int(t.Month()))

	case "COUNT":
		// COUNT with any argument counts the whole record set; there is no
		// per-record predicate support.
		return float64(len(ctx.Records))

	case "SUM":
		sum := 0.0
		for _, rec := range ctx.Records {
			sum += numberOrZero(rec.Get(aggregateField(args)))
		}
		return sum

	case "AVG":
		if len(ctx.Records) == 0 {
			return 0.0
		}
		sum := 0.0
		slug := aggregateField(args)
		for _, rec := range ctx.Records {
			sum += numberOrZero(rec.Get(slug))
		}
		return sum / float64(len(ctx.Records))

	case "MIN":
		// Missing or unparseable values default to 0, which can pull MIN
		// toward zero. Longstanding behavior; keep it.
		return reduceRecords(ctx, aggregateField(args), math.Min)

	case "MAX":
		return reduceRecords(ctx, aggregateField(args), math.Max)

	default:
		e.log.Warn("engine: unknown function", zap.String("function", name))
		return nil
	}
}

func argValue(args []callArg, i int) any {
	if i >= len(args) {
		return nil
	}
	return args[i].value
}

func argNumber(args []callArg, i int) float64 {
	return numberOrZero(argValue(args, i))
}

// aggregateField resolves the field slug an aggregate call reduces. When
// the argument was not a bare reference or string, the evaluated value's
// string form is used, which degrades to the unresolved-field path.
func aggregateField(args []callArg) string {
	if len(args) == 0 {
		return ""
	}
	if args[0].name != "" {
		return args[0].name
	}
	return toString(args[0].value)
}

func reduceRecords(ctx *Context, slug string, pick func(a, b float64) float64) any {
	if len(ctx.Records) == 0 {
		return 0.0
	}
	result := numberOrZero(ctx.Records[0].Get(slug))
	for _, rec := range ctx.Records[1:] {
		result = pick(result, numberOrZero(rec.Get(slug)))
	}
	return result
}

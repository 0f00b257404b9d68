package engine

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fieldcalc/internal/model"
)

// Context carries the inputs for a single evaluation call: the current
// record, the full candidate record set for aggregate sub-calls, and the
// evaluation instant. The engine holds no state of its own, so identical
// contexts always produce identical results and concurrent calls never
// interfere.
type Context struct {
	Record  model.Record
	Records []model.Record
	Now     time.Time
}

// Evaluator evaluates formulas against a context. The zero configuration
// logs nothing; inject a logger to surface diagnostics.
type Evaluator struct {
	log      *zap.Logger
	maxDepth int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger injects the diagnostics logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxDepth overrides the maximum formula nesting depth.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		log:      zap.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate tokenizes, parses, and evaluates a formula. The result is a
// number, string, boolean, or nil (nil for an empty formula). The only
// error is a formula exceeding the nesting depth limit; every other
// malformed input degrades to 0/null per the total-function policy.
func (e *Evaluator) Evaluate(formula string, ctx *Context) (any, error) {
	node, err := Parse(Tokenize(formula), e.maxDepth)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = &Context{}
	}
	return e.eval(node, ctx), nil
}

// EvaluateNode evaluates an already parsed formula, letting callers parse
// once and evaluate per record.
func (e *Evaluator) EvaluateNode(node Node, ctx *Context) any {
	if ctx == nil {
		ctx = &Context{}
	}
	return e.eval(node, ctx)
}

func (e *Evaluator) eval(node Node, ctx *Context) any {
	switch n := node.(type) {
	case *Literal:
		return n.Value

	case *FieldRef:
		// The raw attribute value; numeric coercion happens at the point
		// of use, so date functions and string comparisons still see the
		// original value. Unresolved references come back nil and degrade
		// to 0 in arithmetic.
		return ctx.Record.Get(n.Slug)

	case *BinaryOp:
		return e.evalBinary(n, ctx)

	case *Call:
		args := make([]callArg, len(n.Args))
		for i, arg := range n.Args {
			// Arguments are evaluated eagerly before dispatch; both
			// branches of IF are always computed.
			args[i] = callArg{value: e.eval(arg, ctx), name: argName(arg)}
		}
		return e.callFunction(n.Name, args, ctx)

	default:
		return nil
	}
}

// evalBinary folds a binary expression. Left-associative chains nest on
// the left without any depth-counted parentheses, so the left spine is
// walked iteratively; a formula of any length stays within a constant
// stack budget. Right operands are bounded by the parser's depth limit.
func (e *Evaluator) evalBinary(n *BinaryOp, ctx *Context) any {
	spine := []*BinaryOp{n}
	for {
		l, ok := n.Left.(*BinaryOp)
		if !ok {
			break
		}
		n = l
		spine = append(spine, l)
	}
	acc := e.eval(n.Left, ctx)
	for i := len(spine) - 1; i >= 0; i-- {
		op := spine[i]
		acc = e.applyBinary(op.Op, acc, e.eval(op.Right, ctx))
	}
	return acc
}

func (e *Evaluator) applyBinary(op string, left, right any) any {
	switch op {
	case "+":
		return numberOrZero(left) + numberOrZero(right)
	case "-":
		return numberOrZero(left) - numberOrZero(right)
	case "*":
		return numberOrZero(left) * numberOrZero(right)
	case "/":
		r := numberOrZero(right)
		if r == 0 {
			// Division by zero yields 0 so a bad formula never poisons a
			// whole computed row.
			return 0.0
		}
		return numberOrZero(left) / r
	case "%":
		r := numberOrZero(right)
		if r == 0 {
			return 0.0
		}
		return math.Mod(numberOrZero(left), r)
	case "=", "==":
		return valuesEqual(left, right)
	case "!", "!=":
		return !valuesEqual(left, right)
	case ">":
		return numberOrZero(left) > numberOrZero(right)
	case ">=":
		return numberOrZero(left) >= numberOrZero(right)
	case "<":
		return numberOrZero(left) < numberOrZero(right)
	case "<=":
		return numberOrZero(left) <= numberOrZero(right)
	default:
		e.log.Warn("engine: unknown operator", zap.String("op", op))
		return nil
	}
}

// valuesEqual compares numerically when both sides coerce to numbers,
// otherwise as strings.
func valuesEqual(left, right any) bool {
	ln, lok := toNumber(left)
	rn, rok := toNumber(right)
	if lok && rok {
		return ln == rn
	}
	return toString(left) == toString(right)
}

// argName returns the field slug an argument names when it is a bare field
// reference or string literal, which is how aggregate functions receive
// the field to reduce. Other shapes return "".
func argName(n Node) string {
	switch a := n.(type) {
	case *FieldRef:
		return a.Slug
	case *Literal:
		if s, ok := a.Value.(string); ok {
			return s
		}
	}
	return ""
}

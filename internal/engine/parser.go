package engine

import "github.com/rotisserie/eris"

// DefaultMaxDepth bounds call, parenthesis, and unary-sign nesting. Formulas are user
// input; a pathological nesting depth fails the call instead of recursing
// without bound.
const DefaultMaxDepth = 32

// Parse builds an AST from a token stream. It is as permissive as the
// tokenizer: malformed input degrades to a best-effort tree with null
// literals where operands are missing. The only failure is exceeding
// maxDepth, which rejects the formula as invalid.
func Parse(toks []Token, maxDepth int) (Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(toks) == 0 {
		return &Literal{}, nil
	}
	p := &parser{toks: toks, maxDepth: maxDepth}
	n := p.parseExpr(1)
	if p.tooDeep {
		return nil, eris.Errorf("engine: formula exceeds max nesting depth %d", maxDepth)
	}
	return n, nil
}

type parser struct {
	toks     []Token
	pos      int
	depth    int
	maxDepth int
	tooDeep  bool
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// precedence returns the binding strength of an operator token, or 0 for
// anything that is not an operator. Comparisons bind below +/- which bind
// below */%; all are left-associative.
func precedence(t Token) int {
	switch t.Type {
	case TokenComparison:
		return 1
	case TokenOperator:
		switch t.Text {
		case "+", "-":
			return 2
		case "*", "/", "%":
			return 3
		}
	}
	return 0
}

func (p *parser) parseExpr(min int) Node {
	left := p.parsePrimary()
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		pr := precedence(t)
		if pr == 0 || pr < min {
			break
		}
		p.next()
		right := p.parseExpr(pr + 1)
		left = &BinaryOp{Op: t.Text, Left: left, Right: right}
	}
	return left
}

func (p *parser) parsePrimary() Node {
	if p.tooDeep {
		// The parse already failed; stop descending.
		return &Literal{}
	}
	t, ok := p.peek()
	if !ok {
		return &Literal{}
	}
	switch t.Type {
	case TokenNumber:
		p.next()
		return &Literal{Value: t.Num}

	case TokenString:
		p.next()
		return &Literal{Value: t.Text}

	case TokenField:
		p.next()
		return &FieldRef{Slug: t.Text}

	case TokenFunction:
		p.next()
		return p.parseCall(t.Text)

	case TokenLParen:
		p.next()
		p.depth++
		if p.depth > p.maxDepth {
			p.tooDeep = true
		}
		n := p.parseExpr(1)
		p.depth--
		if nt, ok := p.peek(); ok && nt.Type == TokenRParen {
			p.next()
		}
		return n

	case TokenOperator:
		// Unary plus/minus nests like parentheses, so a long sign chain
		// trips the depth limit instead of recursing without bound.
		if t.Text == "+" || t.Text == "-" {
			p.next()
			p.depth++
			if p.depth > p.maxDepth {
				p.tooDeep = true
			}
			operand := p.parsePrimary()
			p.depth--
			if t.Text == "-" {
				return &BinaryOp{Op: "-", Left: &Literal{Value: 0.0}, Right: operand}
			}
			return operand
		}
		p.next()
		return &Literal{}

	default:
		// Comma or closing paren with no operand: leave it for the caller
		// and stand in a null literal.
		return &Literal{}
	}
}

// parseCall consumes a function's argument list. A comma at depth 1 of the
// call (directly inside its own parentheses, not a nested call's) splits
// arguments, so the inner comma of IF(...) inside SUM(IF(x,1,0)) binds to
// IF, not to SUM.
func (p *parser) parseCall(name string) Node {
	call := &Call{Name: name}
	t, ok := p.peek()
	if !ok || t.Type != TokenLParen {
		// The tokenizer only emits FUNCTION when "(" follows; guard anyway.
		return call
	}
	p.next()
	p.depth++
	if p.depth > p.maxDepth {
		p.tooDeep = true
	}
	defer func() { p.depth-- }()

	if t, ok := p.peek(); ok && t.Type == TokenRParen {
		p.next()
		return call
	}
	for {
		call.Args = append(call.Args, p.parseExpr(1))
		t, ok := p.peek()
		if !ok {
			// Unterminated call: treat end of input as the closing paren.
			return call
		}
		switch t.Type {
		case TokenComma:
			p.next()
		case TokenRParen:
			p.next()
			return call
		default:
			// Junk between arguments: discard and keep going.
			p.next()
		}
	}
}

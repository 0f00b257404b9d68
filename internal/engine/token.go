// Package engine implements the calculated-field formula engine: a
// permissive tokenizer, a recursive-descent parser, an evaluator with a
// built-in function library, calendar-aware time-scope filtering, and the
// orchestration that computes fields over record sets.
//
// Formulas are end-user configuration, so the engine follows a total-function
// policy: tokenizing never errors, malformed input degrades to a best-effort
// parse, and evaluation degrades to 0/null rather than failing. A dashboard
// render must never crash on a bad formula.
package engine

import (
	"strconv"
	"strings"
)

// TokenType tags a token produced while scanning a formula.
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenString
	TokenOperator
	TokenComparison
	TokenLParen
	TokenRParen
	TokenComma
	TokenFunction
	TokenField
)

// Token is one lexical unit of a formula. Function tokens carry their
// canonical upper-case name; field tokens preserve the original case.
type Token struct {
	Type TokenType
	Text string
	Num  float64 // parsed value for number tokens
}

// functionNames is the fixed set of built-in function names. An identifier
// immediately followed by "(" tokenizes as a function only when its
// upper-cased form is in this set; anything else stays a field reference.
var functionNames = map[string]bool{
	"SUM": true, "AVG": true, "COUNT": true, "MIN": true, "MAX": true,
	"DAYS_SINCE": true, "DAYS_BETWEEN": true, "MONTHS_SINCE": true,
	"HOURS_SINCE": true, "IF": true, "CASE": true, "COALESCE": true,
	"ABS": true, "ROUND": true, "FLOOR": true, "CEIL": true,
}

// Tokenize scans a formula left to right with longest-match per category.
// It never errors: whitespace is skipped, unterminated strings consume to
// end of input, and unrecognized characters are discarded silently.
func Tokenize(input string) []Token {
	var toks []Token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case isWhitespace(c):
			i++

		case isDigit(c):
			start := i
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			text := input[start:i]
			n, _ := strconv.ParseFloat(text, 64)
			toks = append(toks, Token{Type: TokenNumber, Text: text, Num: n})

		case c == '\'' || c == '"':
			quote := c
			i++
			start := i
			for i < len(input) && input[i] != quote {
				i++
			}
			toks = append(toks, Token{Type: TokenString, Text: input[start:i]})
			if i < len(input) {
				i++ // closing quote
			}

		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%':
			toks = append(toks, Token{Type: TokenOperator, Text: string(c)})
			i++

		case c == '>' || c == '<' || c == '=' || c == '!':
			text := string(c)
			i++
			if i < len(input) && input[i] == '=' {
				text += "="
				i++
			}
			toks = append(toks, Token{Type: TokenComparison, Text: text})

		case c == '(':
			toks = append(toks, Token{Type: TokenLParen, Text: "("})
			i++

		case c == ')':
			toks = append(toks, Token{Type: TokenRParen, Text: ")"})
			i++

		case c == ',':
			toks = append(toks, Token{Type: TokenComma, Text: ","})
			i++

		case isLetter(c) || c == '_':
			start := i
			for i < len(input) && (isLetter(input[i]) || isDigit(input[i]) || input[i] == '_') {
				i++
			}
			name := input[start:i]
			if i < len(input) && input[i] == '(' && functionNames[strings.ToUpper(name)] {
				toks = append(toks, Token{Type: TokenFunction, Text: strings.ToUpper(name)})
			} else {
				toks = append(toks, Token{Type: TokenField, Text: name})
			}

		default:
			// Unrecognized character: discard.
			i++
		}
	}
	return toks
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

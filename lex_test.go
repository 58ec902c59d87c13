package letcalc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexAll scans src to EOF, returning every token before the first error.
func lexAll(src string) ([]lexToken, error) {
	scan := lex(strings.NewReader(src))
	var toks []lexToken
	for {
		tok, err := scan.next()
		if err != nil {
			return toks, err
		}
		if tok.kind == tokenEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func TestLex(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		tokens []lexToken
	}{
		{"empty", "", nil},
		{"spaces", " \t \r\n ", nil},
		{"int", "5", []lexToken{{text: "5", kind: tokenNum, pos: 1}}},
		{"long", "9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}},
		{"decimal", "123.456", []lexToken{{text: "123.456", kind: tokenNum, pos: 1}}},
		{"leading-dot", ".5", []lexToken{{text: ".5", kind: tokenNum, pos: 1}}},
		{"scientific", "1.23e-4", []lexToken{{text: "1.23e-4", kind: tokenNum, pos: 1}}},
		{"exp-plus", "1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}},
		{"leading-space", "  5", []lexToken{{text: "5", kind: tokenNum, pos: 3}}},
		{"sub", "123-456", []lexToken{
			{text: "123", kind: tokenNum, pos: 1},
			{text: "-", kind: tokenOp, pos: 4},
			{text: "456", kind: tokenNum, pos: 5},
		}},
		{"ops", "+ - * / ^", []lexToken{
			{text: "+", kind: tokenOp, pos: 1},
			{text: "-", kind: tokenOp, pos: 3},
			{text: "*", kind: tokenOp, pos: 5},
			{text: "/", kind: tokenOp, pos: 7},
			{text: "^", kind: tokenOp, pos: 9},
		}},
		{"parens", "(1)", []lexToken{
			{text: "(", kind: tokenOpen, pos: 1},
			{text: "1", kind: tokenNum, pos: 2},
			{text: ")", kind: tokenClose, pos: 3},
		}},
		{"ident", "x", []lexToken{{text: "x", kind: tokenIdent, pos: 1}}},
		{"ident-alnum", "x1_y", []lexToken{{text: "x1_y", kind: tokenIdent, pos: 1}}},
		{"let", "let", []lexToken{{text: "let", kind: tokenLet, pos: 1}}},
		{"let-prefix", "lettuce", []lexToken{{text: "lettuce", kind: tokenIdent, pos: 1}}},
		{"declaration", "let x = 5; x", []lexToken{
			{text: "let", kind: tokenLet, pos: 1},
			{text: "x", kind: tokenIdent, pos: 5},
			{text: "=", kind: tokenAssign, pos: 7},
			{text: "5", kind: tokenNum, pos: 9},
			{text: ";", kind: tokenSemi, pos: 10},
			{text: "x", kind: tokenIdent, pos: 12},
		}},
		{"tight", "x=5;y", []lexToken{
			{text: "x", kind: tokenIdent, pos: 1},
			{text: "=", kind: tokenAssign, pos: 2},
			{text: "5", kind: tokenNum, pos: 3},
			{text: ";", kind: tokenSemi, pos: 4},
			{text: "y", kind: tokenIdent, pos: 5},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := lexAll(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.tokens, toks)
		})
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
	}{
		{"bad-rune", "@", 2},
		{"bad-rune-after", "5 @", 4},
		{"double-dot", "1.2.3", 5},
		{"bare-exp", "1e", 3},
		{"letter-in-num", "1a", 3},
		{"lone-dot", ".", 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := lexAll(c.src)
			require.Error(t, err)
			var lerr *LexError
			require.True(t, errors.As(err, &lerr), "got %T: %v", err, err)
			assert.Equal(t, c.col, lerr.Pos())
		})
	}
}

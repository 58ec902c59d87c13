package letcalc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "5", "5"},
		{"add", "5 + 3", "(5 + 3)"},
		{"sub-assoc", "8 - 3 - 2", "((8 - 3) - 2)"},
		{"div-assoc", "20 / 4 / 5", "((20 / 4) / 5)"},
		{"precedence", "5 + 3 * 2", "(5 + (3 * 2))"},
		{"grouping", "5 + 3 * (2 + 1)", "(5 + (3 * (2 + 1)))"},
		{"grouping-left", "(5 + 3) * 2", "((5 + 3) * 2)"},
		{"pow-right", "4 ^ 3 ^ 2", "(4 ^ (3 ^ 2))"},
		{"neg", "-5 + 3", "(-5 + 3)"},
		{"neg-tight", "-5 * 3", "(-5 * 3)"},
		{"neg-exp", "2 ^ -3", "(2 ^ -3)"},
		{"nop", "+5", "+5"},
		{"collapse", "((2))", "2"},
		{"decl", "let x = 5", "let x = 5"},
		{"decl-chain", "let x = 5; let y = 3; x + y", "let x = 5; let y = 3; (x + y)"},
		{"assign", "x = 10", "x = 10"},
		{"assign-expr", "x = x + 1", "x = (x + 1)"},
		{"empty-stmts", ";; 5 + 3 ;", "(5 + 3)"},
		{"empty", "", ""},
		{"ident-lhs", "y / -10", "(y / -10)"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, err := ParseString(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, prog.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		target any
	}{
		{"trailing-op", "5 +", new(*EmptyExpressionError)},
		{"op-then-semi", "5 + ; 3", new(*EmptyExpressionError)},
		{"empty-group", "()", new(*EmptyExpressionError)},
		{"decl-no-expr", "let x =", new(*EmptyExpressionError)},
		{"stray-close", "5 + 3)", new(*BracketError)},
		{"lone-close", ")", new(*BracketError)},
		{"unclosed", "(5 + 3", new(*BracketError)},
		{"binary-as-unary", "5 + * 3", new(*OperatorError)},
		{"leading-star", "*5", new(*OperatorError)},
		{"decl-num-name", "let 5 = x", new(*DeclError)},
		{"decl-no-eq", "let x 5", new(*DeclError)},
		{"bare-let", "let", new(*DeclError)},
		{"trailing-term", "2 3", new(*TokenError)},
		{"assign-to-num", "5 = 3", new(*TokenError)},
		{"assign-in-group", "(x = 5)", new(*TokenError)},
		{"nested-let", "let x = let y = 5", new(*TokenError)},
		{"bad-rune", "@", new(*LexError)},
		{"bad-number", "1.2.3", new(*LexError)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src)
			require.Error(t, err)
			assert.True(t, errors.As(err, c.target), "got %T: %v", err, err)
		})
	}
}

func TestParseErrorPositions(t *testing.T) {
	cases := []struct {
		name string
		src  string
		pos  int
	}{
		{"stray-close", "5 + 3)", 6},
		{"decl-num-name", "let 5 = x", 5},
		{"trailing-term", "2 3", 3},
		{"binary-as-unary", "5 + * 3", 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src)
			require.Error(t, err)
			var ierr InputError
			require.True(t, errors.As(err, &ierr), "got %T: %v", err, err)
			assert.Equal(t, c.pos, ierr.Pos())
		})
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1 + 2 + 3", nil},
		{"one", "1 + 2 + x", []string{"x"}},
		{"sorted", "z + y + x", []string{"x", "y", "z"}},
		{"reuse", "a + b + a", []string{"a", "b"}},
		{"decl-target-not-counted", "x + y; let z = x", []string{"x", "y"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, err := ParseString(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.vars, prog.Vars())
		})
	}
}

func TestStmtCount(t *testing.T) {
	prog, err := ParseString("let x = 5; x + 3; x * 2")
	require.NoError(t, err)
	assert.Equal(t, 3, prog.Len())
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestOpBinding(t *testing.T) {
	assert.True(t, binop("*").moreBinding(binop("+")), "* should bind tighter than +")
	assert.True(t, binop("/").moreBinding(binop("-")), "/ should bind tighter than -")
	assert.True(t, unop("-").moreBinding(binop("*")), "unary - should bind tighter than *")
	assert.True(t, binop("^").moreBinding(unop("-")), "^ should bind tighter than unary -")
	assert.False(t, binop("-").moreBinding(binop("-")), "binary - should be left-associative")
	assert.True(t, binop("^").moreBinding(binop("^")), "^ should be right-associative")
}

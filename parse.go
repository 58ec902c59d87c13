package letcalc

import (
	"errors"
	"io"
	"strings"
)

// Program = Stmt { ';' Stmt } [ ';' ]
// Stmt = 'let' name '=' Expr | name '=' Expr | Expr
// Expr = num | name | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr

// Program is the parsed form of one line of input: an ordered sequence of
// statements that can be evaluated with an Env.
type Program struct {
	// stmts are the statements in source order.
	stmts []*stmt
	// names is the list of variable names referenced by the program.
	names []string
}

// parser turns a token stream into statements, one at a time.
type parser struct {
	scan *lexer
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
}

func newParser(src io.RuneScanner) *parser {
	return &parser{
		scan:  lex(src),
		names: make(map[string]bool),
	}
}

// Parse parses a full line of semicolon-separated statements. Parsing is
// purely syntactic: variables need not be defined, and nothing is evaluated.
func Parse(src io.RuneScanner) (*Program, error) {
	p := newParser(src)
	var stmts []*stmt
	for {
		s, err := p.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		stmts = append(stmts, s)
	}
	prog := Program{
		stmts: stmts,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		prog.names = append(prog.names, k)
	}
	sortstrs(prog.names)
	return &prog, nil
}

// ParseString is a shortcut to parse a string of statements.
func ParseString(src string) (*Program, error) {
	return Parse(strings.NewReader(src))
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// next parses one statement, skipping empty ones. The result is io.EOF once
// the input is exhausted.
func (p *parser) next() (*stmt, error) {
	for {
		tok, err := p.scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenEOF:
			return nil, io.EOF
		case tokenSemi:
			// Empty statement.
			continue
		case tokenLet:
			return p.declaration(tok)
		case tokenIdent:
			// An identifier starts either an assignment or an expression;
			// one token of lookahead decides which.
			nx, err := p.scan.next()
			if err != nil {
				return nil, err
			}
			if nx.kind == tokenAssign {
				return p.assignment(tok)
			}
			p.scan.push(nx)
			p.names[tok.text] = true
			n, err := parsefrom(p.scan, p, &node{kind: nodeName, name: tok.text}, exprprec)
			if err != nil {
				return nil, err
			}
			return p.finish(&stmt{kind: stmtExpr, pos: tok.pos, expr: n})
		default:
			p.scan.push(tok)
			n, err := parseterm(p.scan, p, exprprec)
			if err != nil {
				return nil, err
			}
			if n == nil {
				return nil, itShouldNotHaveEndedThisWay(p.scan.must(), false)
			}
			return p.finish(&stmt{kind: stmtExpr, pos: tok.pos, expr: n})
		}
	}
}

// declaration parses the remainder of a let statement.
func (p *parser) declaration(let lexToken) (*stmt, error) {
	name, err := p.scan.next()
	if err != nil {
		return nil, err
	}
	if name.kind != tokenIdent {
		return nil, &DeclError{Col: name.pos, Token: name.text, Missing: "name"}
	}
	eq, err := p.scan.next()
	if err != nil {
		return nil, err
	}
	if eq.kind != tokenAssign {
		return nil, &DeclError{Col: eq.pos, Name: name.text, Token: eq.text, Missing: "="}
	}
	n, err := parseterm(p.scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, itShouldNotHaveEndedThisWay(p.scan.must(), false)
	}
	return p.finish(&stmt{kind: stmtLet, name: name.text, pos: let.pos, expr: n})
}

// assignment parses the remainder of an assignment statement. The name token
// and the = have already been consumed.
func (p *parser) assignment(name lexToken) (*stmt, error) {
	n, err := parseterm(p.scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, itShouldNotHaveEndedThisWay(p.scan.must(), false)
	}
	return p.finish(&stmt{kind: stmtAssign, name: name.text, pos: name.pos, expr: n})
}

// finish checks that a statement ends at a semicolon or EOF. An EOF token is
// pushed back so that the next call to next observes the end of input.
func (p *parser) finish(s *stmt) (*stmt, error) {
	end := p.scan.must()
	switch end.kind {
	case tokenSemi:
		return s, nil
	case tokenEOF:
		p.scan.push(end)
		return s, nil
	default:
		return nil, itShouldNotHaveEndedThisWay(end, false)
	}
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parser, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	return parsefrom(scan, p, n, until)
}

// parsefrom continues parsing a term whose first component is already parsed.
func parsefrom(scan *lexer, p *parser, n *node, until operator) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenSemi, tokenAssign, tokenEOF:
			// End of expression. The caller decides whether the terminator
			// is legal where it stands.
			scan.push(tok)
			return n, nil
		default:
			// A number, name, or bracket directly following a complete term.
			return nil, &TokenError{Col: tok.pos, Token: tok.text}
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parser, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text}
	case tokenIdent:
		p.names[tok.text] = true
		n = &node{kind: nodeName, name: tok.text}
	case tokenOp:
		// Unary operator.
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &node{kind: prec.op, left: rhs}
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		// Grouping only affects parsing; the tree keeps the inner node.
		n = rhs
	case tokenClose:
		// Let the caller decide whether this closes anything.
		scan.push(tok)
		return nil, nil
	case tokenSemi:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenAssign, tokenLet:
		return nil, &TokenError{Col: tok.pos, Token: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("letcalc: unknown token: " + tok.String())
	}
	return n, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open indicates whether an opening
// parenthesis was pending.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	l := ""
	if open {
		l = "("
	}
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies a parenthesis that was not closed.
		return &BracketError{Col: tok.pos, Left: l, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: l, Right: tok.text}
	default:
		return &TokenError{Col: tok.pos, Token: tok.text}
	}
}

// Vars returns the variable names referenced when evaluating the program.
func (p *Program) Vars() []string {
	return append(([]string)(nil), p.names...)
}

// Len returns the number of statements in the program.
func (p *Program) Len() int {
	return len(p.stmts)
}

// String creates a string representation of the parsed program, with every
// binary operation parenthesized and statements joined by semicolons.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.stmts {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(s.String())
	}
	return b.String()
}

type operator struct {
	// prec is the precedence value. Lower is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}

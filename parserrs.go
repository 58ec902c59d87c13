package letcalc

import "strconv"

// OperatorError is an error indicating an operator token used in a position
// where it has no meaning, e.g. a binary * with no left operand. It
// implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the token that revealed the mismatch.
	Col int
	// Left is the opening parenthesis, if one was pending.
	Left string
	// Right is the mismatched closing parenthesis.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token that cannot appear where it was
// found, e.g. a number directly following a complete expression, or = outside
// a declaration. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the token.
	Token string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Token))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// DeclError is an error indicating a malformed let declaration. It implements
// InputError.
type DeclError struct {
	// Col is the position of the offending token.
	Col int
	// Name is the declared variable name, if one was parsed.
	Name string
	// Token is the text of the offending token. Empty at end of input.
	Token string
	// Missing is what the parser expected: "name" or "=".
	Missing string
}

func (err *DeclError) Error() string {
	found := strconv.Quote(err.Token)
	if err.Token == "" {
		found = "end of input"
	}
	if err.Missing == "name" {
		return errpos(err.Col, "expected variable name after let, found "+found)
	}
	return errpos(err.Col, "expected = after let "+err.Name+", found "+found)
}

func (err *DeclError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*DeclError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)

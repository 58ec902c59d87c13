package letcalc

import (
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Env is the variable environment statements evaluate against. Declarations
// and assignments mutate it, so bindings carry forward to later statements
// and, if the caller keeps the Env, to later lines. It is not safe to use an
// Env concurrently.
type Env struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	prec  uint
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
)

func (varopt) envOption()  {}
func (varsopt) envOption() {}
func (precopt) envOption() {}

// SetVar sets the value of a variable in the environment.
func SetVar(name string, val *big.Float) EnvOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the environment.
func SetVars(vars map[string]*big.Float) EnvOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations.
func Prec(prec uint) EnvOption {
	return precopt(prec)
}

// NewEnv creates a new environment. If no precision is given, the default is
// 64.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{nums: make(map[string]*big.Float), prec: 64}
	return env.Clone(opts...)
}

// Set sets the value of a variable. Returns env for chaining.
func (env *Env) Set(name string, value *big.Float) *Env {
	if env.names == nil {
		env.names = make(map[string]*big.Float)
	}
	env.names[name] = new(big.Float).SetPrec(env.prec).Set(value)
	return env
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the environment, then the result is nil.
func (env *Env) Lookup(name string) *big.Float {
	v := env.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the environment.
func (env *Env) Prec() uint {
	return env.prec
}

// Clone creates a copy of an environment and applies options to it. The copy
// shares no state with the original, so independent sessions can run without
// interference.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		stack: make([]*big.Float, 0, cap(env.stack)),
		nums:  make(map[string]*big.Float, len(env.nums)),
		names: make(map[string]*big.Float, len(env.names)),
		prec:  env.prec,
	}
	// First, check for a precision setting. Loop backward so we apply the last
	// precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy cached numbers only if the new precision is no higher than the old,
	// so that we always use the precision we need.
	if n.prec <= env.prec {
		for k, v := range env.nums {
			n.nums[k] = new(big.Float).SetPrec(n.prec).Set(v)
		}
	}
	// Copy variables. (We always need a copy in case of Set.) If we have the
	// same precision, we can just copy pointers.
	if n.prec == env.prec {
		for name, val := range env.names {
			n.names[name] = val
		}
	} else {
		for name, val := range env.names {
			n.names[name] = new(big.Float).SetPrec(n.prec).Set(val)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("letcalc: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (env *Env) push() *big.Float {
	if len(env.stack) < cap(env.stack) {
		env.stack = env.stack[:len(env.stack)+1]
		if env.stack[len(env.stack)-1] == nil {
			env.stack[len(env.stack)-1] = new(big.Float).SetPrec(env.prec)
		}
	} else {
		env.stack = append(env.stack, new(big.Float).SetPrec(env.prec))
	}
	return env.stack[len(env.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (env *Env) pop() *big.Float {
	r := env.stack[len(env.stack)-1]
	env.stack = env.stack[:len(env.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (env *Env) top() *big.Float {
	return env.stack[len(env.stack)-1]
}

// num gets a possibly cached number from its text.
func (env *Env) num(s string) *big.Float {
	if r := env.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(env.prec).Parse(s, 0)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// N.B. s is non-empty, otherwise we couldn't overflow.
		r = new(big.Float).SetInf(s[0] == '-')
	default:
		panic("letcalc: invalid number: " + s + " (" + err.Error() + ")")
	}
	env.nums[s] = r
	return r
}

// eval pushes the node's value to the environment's stack. The left subtree
// always evaluates before the right one.
func (n *node) eval(env *Env) error {
	switch n.kind {
	case nodeNum:
		env.push().Set(env.num(n.name))
	case nodeName:
		v := env.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		env.push().Set(v)
	case nodeNeg:
		if err := n.left.eval(env); err != nil {
			return err
		}
		v := env.top()
		v.Neg(v)
	case nodeAdd:
		if err := n.left.eval(env); err != nil {
			return err
		}
		if err := n.right.eval(env); err != nil {
			return err
		}
		r := env.pop()
		l := env.top()
		l.Add(l, r)
	case nodeSub:
		if err := n.left.eval(env); err != nil {
			return err
		}
		if err := n.right.eval(env); err != nil {
			return err
		}
		r := env.pop()
		l := env.top()
		l.Sub(l, r)
	case nodeMul:
		if err := n.left.eval(env); err != nil {
			return err
		}
		if err := n.right.eval(env); err != nil {
			return err
		}
		r := env.pop()
		l := env.top()
		l.Mul(l, r)
	case nodeDiv:
		if err := n.left.eval(env); err != nil {
			return err
		}
		if err := n.right.eval(env); err != nil {
			return err
		}
		r := env.pop()
		l := env.top()
		// A calculator's output is always a finite number, so any zero
		// divisor is an error rather than an infinity.
		if r.Sign() == 0 {
			return &DivisionError{}
		}
		if l.IsInf() && r.IsInf() {
			return &DomainError{X: r, Op: "/"}
		}
		l.Quo(l, r)
	case nodePow:
		if err := n.left.eval(env); err != nil {
			return err
		}
		if err := n.right.eval(env); err != nil {
			return err
		}
		r := env.pop()
		l := env.top()
		// Guard against invalid exponentiations, i.e. negative base.
		if l.Signbit() {
			return &DomainError{X: l, Op: "^"}
		}
		bigfloat.Pow(l, l, r)
	case nodeNop:
		if err := n.left.eval(env); err != nil {
			return err
		}
	default:
		panic("letcalc: invalid AST node " + n.kind.String())
	}
	return nil
}

// eval evaluates one statement. Declarations bind their name after evaluating
// the expression; assignments additionally require the name to be bound
// already. The result of every statement kind is the expression's value.
func (s *stmt) eval(env *Env) (*big.Float, error) {
	env.stack = env.stack[:0]
	if err := s.expr.eval(env); err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(env.prec).Set(env.pop())
	switch s.kind {
	case stmtLet:
		// Re-declaration overwrites.
		env.Set(s.name, r)
	case stmtAssign:
		if env.names[s.name] == nil {
			return nil, &NameError{Name: s.name, Assign: true}
		}
		env.Set(s.name, r)
	}
	return r, nil
}

// Eval evaluates the program's statements in order against env, returning one
// result per statement. If a statement fails, the results of the statements
// before it are returned alongside the error; bindings made by those
// statements remain in env.
func (p *Program) Eval(env *Env) ([]*big.Float, error) {
	rs := make([]*big.Float, 0, len(p.stmts))
	for _, s := range p.stmts {
		r, err := s.eval(env)
		if err != nil {
			return rs, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Eval reads one line of semicolon-separated statements from src and
// evaluates them against env, returning one result per statement in source
// order. Statements are parsed and evaluated one at a time, so results
// produced before an error (even a parse error in a later statement) are
// returned alongside it. Empty input yields no results and no error.
func Eval(src io.RuneScanner, env *Env) ([]*big.Float, error) {
	p := newParser(src)
	var rs []*big.Float
	for {
		s, err := p.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rs, nil
			}
			return rs, err
		}
		r, err := s.eval(env)
		if err != nil {
			return rs, err
		}
		rs = append(rs, r)
	}
}

// EvalString is a shortcut to evaluate a string of statements against env.
func EvalString(src string, env *Env) ([]*big.Float, error) {
	return Eval(strings.NewReader(src), env)
}

// NameError is an error from a lookup for a variable that is missing from the
// environment.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Assign indicates the name was the target of an assignment.
	Assign bool
}

func (err *NameError) Error() string {
	if err.Assign {
		return "undefined variable: " + strconv.Quote(err.Name) + " (declare it with let before assigning)"
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}

// DivisionError is an error from dividing by zero.
type DivisionError struct{}

func (*DivisionError) Error() string {
	return "division by zero"
}

// DomainError is an error from an operand outside an operator's domain.
type DomainError struct {
	// X is the offending operand.
	X *big.Float
	// Op is the operator.
	Op string
}

func (err *DomainError) Error() string {
	return err.X.String() + " is out of the domain of " + err.Op
}

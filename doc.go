// Package letcalc implements an arbitrary-precision calculator with
// variables.
//
// A line of input holds one or more statements separated by semicolons. A
// statement is an arithmetic expression, a declaration like "let x = 5", or
// an assignment like "x = 10" to a variable declared earlier. Statements
// evaluate left to right, each producing one number, and bindings made by a
// statement are visible to every statement after it.
//
// Variables live in an Env owned by the caller, so a REPL can keep one Env
// for the whole session and definitions carry across lines:
//
//	env := letcalc.NewEnv()
//	letcalc.EvalString("let x = 5", env)
//	rs, _ := letcalc.EvalString("x * (x + 1)", env) // rs[0] holds 30
package letcalc

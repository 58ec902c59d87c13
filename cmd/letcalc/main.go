package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"letcalc"
)

var (
	prec    = flag.UintP("prec", "p", 64, "precision of calculations in bits")
	verb    = flag.String("fmt", "%g", "result formatting verb")
	given   = flag.StringArray("given", nil, `name=value variable definition (any number of times)`)
	echo    = flag.Bool("echo", false, "print parse trees before evaluating")
	noColor = flag.Bool("no-color", false, "disable colored output")
	debug   = flag.Bool("debug", false, "enable debug logging")
)

var (
	promptColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

func main() {
	flag.Parse()
	setupLogger(*debug)
	defer func() { _ = zap.S().Sync() }()
	if *noColor {
		color.NoColor = true
	}

	env := letcalc.NewEnv(letcalc.Prec(*prec))
	for _, d := range *given {
		nm, vl, ok := strings.Cut(d, "=")
		if !ok {
			zap.S().Fatalf(`variable definitions must be "name=value", not %q`, d)
		}
		nm = strings.TrimSpace(nm)
		rs, err := letcalc.EvalString(strings.TrimSpace(vl), letcalc.NewEnv(letcalc.Prec(*prec)))
		if err != nil {
			zap.S().Fatalf("setting %s: %v", nm, err)
		}
		if len(rs) != 1 {
			zap.S().Fatalf("setting %s: %q must be a single expression", nm, vl)
		}
		env.Set(nm, rs[0])
	}

	if flag.NArg() > 0 {
		// Non-interactive: each argument is a line of statements.
		for _, arg := range flag.Args() {
			run(arg, env)
		}
		return
	}
	if err := repl(env); err != nil {
		zap.S().Fatal(err)
	}
}

// repl reads lines from stdin until EOF or a quit word, evaluating each one
// against the session environment. An error on one line never ends the
// session; only a read failure does.
func repl(env *letcalc.Env) error {
	sc := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}
		run(line, env)
	}
	return errors.Wrap(sc.Err(), "reading input")
}

// run evaluates one line and prints each statement's result on its own line
// with a = prefix, followed by the error if the line did not finish.
func run(line string, env *letcalc.Env) {
	if *echo {
		if prog, err := letcalc.ParseString(line); err == nil {
			fmt.Printf("%v\n", prog)
		}
	}
	rs, err := letcalc.EvalString(line, env)
	for _, r := range rs {
		resultColor.Printf("="+*verb+"\n", r)
	}
	if err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func setupLogger(debug bool) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

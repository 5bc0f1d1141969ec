// Command exl runs EXL scripts from a file, a -c command string, stdin, or
// an interactive prompt when stdin is a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/engine"
)

const version = "exl 0.1.0"

const usage = `exl

Usage:
  exl [SCRIPT [ARGUMENTS...]]
  exl -c COMMAND [ARGUMENTS...]
  exl -h
  exl -v

Arguments:
  SCRIPT     Path to an exl script.
  ARGUMENTS  Positional values, bound to the variable "args".

Options:
  -c, --command=COMMAND  Run the specified command.
  -h, --help             Display this help.
  -v, --version          Print exl version.

With no script and no command, exl reads from stdin. If stdin is a TTY an
interactive prompt with history and line editing is started instead.
`

func main() {
	opts, err := docopt.ParseArgs(usage, nil, version)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	eng, err := engine.New()
	if err != nil {
		fatal(err)
	}

	env := data.NewMapContext()
	rawArgs, _ := opts["ARGUMENTS"].([]string)
	args := make([]any, len(rawArgs))
	for i, a := range rawArgs {
		args[i] = a
	}
	if err := env.Set("args", args); err != nil {
		fatal(err)
	}

	command, _ := opts.String("--command")
	script, _ := opts.String("SCRIPT")

	switch {
	case command != "":
		run(eng, env, command)
	case script != "":
		src, err := os.ReadFile(script)
		if err != nil {
			fatal(err)
		}
		run(eng, env, string(src))
	case isatty.IsTerminal(os.Stdin.Fd()):
		repl(eng, env)
	default:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(err)
		}
		run(eng, env, string(src))
	}
}

// run evaluates source and prints its result. An interrupt cancels the
// evaluation at the next statement boundary.
func run(eng *engine.Engine, env data.Context, source string) {
	v, err := evaluate(eng, env, source)
	if err != nil {
		fatal(err)
	}
	if v != nil {
		fmt.Println(v)
	}
}

func evaluate(eng *engine.Engine, env data.Context, source string) (any, error) {
	s, err := eng.CreateScript(source)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return s.Execute(ctx, env)
}

func repl(eng *engine.Engine, env data.Context) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	for {
		input, err := line.Prompt("exl> ")
		switch err {
		case nil:
		case liner.ErrPromptAborted:
			fmt.Println()
			continue
		case io.EOF:
			fmt.Println()
			saveHistory(line, history)
			return
		default:
			fmt.Fprintln(os.Stderr, "exl:", err)
			saveHistory(line, history)
			return
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		v, err := evaluate(eng, env, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "exl:", err)
			continue
		}
		if v != nil {
			fmt.Println(v)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".exl_history")
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exl: writing history:", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		fmt.Fprintln(os.Stderr, "exl: writing history:", err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "exl:", err)
	if errors.Is(err, engine.ErrParseFailed) {
		os.Exit(2)
	}
	os.Exit(1)
}

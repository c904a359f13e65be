package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jcorbin/weakforth/internal/input"
	"github.com/jcorbin/weakforth/internal/logio"
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole command, returning its exit status.
func run(name string, args []string, stdout, stderr io.Writer) int {
	ctx := context.Background()

	var log logio.Logger
	log.SetOutput(stderr)

	var (
		timeout     time.Duration
		trace       bool
		dump        bool
		rstackLimit int
		history     string
	)
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flags.BoolVar(&trace, "trace", false, "enable trace logging")
	flags.BoolVar(&dump, "dump", false, "dump VM state to stderr after running")
	flags.IntVar(&rstackLimit, "rstack-limit", 1<<20, "limit return stack depth; 0 for no limit")
	flags.StringVar(&history, "history", defaultHistory(), "interactive history file; empty to disable")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: %v [flags] [file]\n", name)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	var (
		opts  = []VMOption{WithReturnStackLimit(rstackLimit)}
		batch bool
	)
	switch args := flags.Args(); len(args) {
	case 0:
		var (
			lr  input.LineReader
			out = stdout
		)
		if input.IsTerminal(os.Stdin) {
			rl, err := input.NewReadline(history)
			if err != nil {
				log.Errorf("readline setup failed: %v", err)
				return log.ExitCode()
			}
			defer rl.Close()
			lr, out = rl, rl.Stdout()
		} else {
			lr = input.NewScanner(os.Stdin, out)
		}
		opts = append(opts,
			WithInput(input.NewLines("<stdin>", lr, out)),
			WithOutput(out))

	case 1:
		src, err := input.Open(args[0], stdout)
		if err != nil {
			log.Errorf("%v", err)
			return log.ExitCode()
		}
		batch = true
		opts = append(opts,
			WithInput(src),
			WithOutput(stdout))

	default:
		flags.Usage()
		return 2
	}

	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	vm := New(opts...)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := vm.Run(ctx); err != nil {
		log.Errorf("%+v", err)
	} else if batch && vm.Reported() > 0 {
		log.Fail()
	}
	if dump {
		lw := logio.Writer{Logf: log.Leveledf("DUMP")}
		vm.Dump(&lw)
		lw.Flush()
	}

	return log.ExitCode()
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".weakforth_history")
}

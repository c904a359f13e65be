package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/weakforth/internal/panicerr"
)

// New creates a VM with its function table seeded.
func New(opts ...VMOption) *VM {
	var vm VM
	VMOptions(defaultOptions, VMOptions(opts...)).apply(&vm)
	vm.init()
	return &vm
}

// Run drives the dispatch loop until the exit word runs, input runs out, ctx
// is done, or a fatal error occurs. Running out of input is not an error.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	return err
}

// Reported returns how many errors were recovered from while running.
func (vm *VM) Reported() int { return vm.reported }

// Dump writes a description of the VM's registers, stacks and function table.
func (vm *VM) Dump(w io.Writer) { vmDumper{vm: vm, out: w}.dump() }

// WithInput sets the token source; without one the VM has no input, and
// Run returns as soon as it starts.
func WithInput(src TokenSource) VMOption { return withInput(src) }

// WithOutput sets where printing words write; output is buffered unless w
// is an in-memory buffer, and is flushed before blocking on input.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies output to w, in addition to any prior output.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithReturnStackLimit bounds call depth; 0 means no limit.
func WithReturnStackLimit(n int) VMOption { return withReturnStackLimit(n) }

// WithWords registers native words after the base word set.
func WithWords(words ...Word) VMOption { return withWords(words...) }

// WithLogf enables trace logging of every instruction and resolver decision.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

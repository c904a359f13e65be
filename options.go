package main

import (
	"io"

	"github.com/jcorbin/weakforth/internal/flushio"
)

// VMOption configures a VM built by New.
type VMOption interface{ apply(vm *VM) }

var defaultOptions = VMOptions(
	withInput(noInput{}),
	withOutput(io.Discard),
)

// VMOptions combines any number of options into one; nils are ignored.
func VMOptions(opts ...VMOption) VMOption {
	var all options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ TokenSource }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type rstackLimitOption int
type wordsOption []Word

func withInput(src TokenSource) inputOption { return inputOption{src} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withTee(w io.Writer) teeOption { return teeOption{w} }
func withReturnStackLimit(n int) rstackLimitOption { return rstackLimitOption(n) }
func withWords(words ...Word) wordsOption { return wordsOption(words) }

func (i inputOption) apply(vm *VM) {
	vm.in = i.TokenSource
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (lim rstackLimitOption) apply(vm *VM) {
	vm.rstackLimit = int(lim)
}

func (words wordsOption) apply(vm *VM) {
	vm.extras = append(vm.extras, words...)
}

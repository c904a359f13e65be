package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/weakforth/internal/flushio"
)

type mode uint8

const (
	executeMode mode = iota
	compileMode
)

func (m mode) String() string {
	if m == compileMode {
		return "compile"
	}
	return "execute"
}

func (m mode) prompt() string {
	if m == compileMode {
		return "...> "
	}
	return "\n> "
}

// frame is a caller saved on the return stack.
type frame struct{ fn, pc int }

func (fr frame) String() string { return fmt.Sprintf("%v:%v", fr.fn, fr.pc) }

// VM is a threaded code interpreter. A single dispatch loop runs every
// compiled body: calling a compiled word pushes the caller onto the return
// stack and repoints fn/pc at the callee, so Go's stack never grows with the
// depth of VM calls.
type VM struct {
	in     TokenSource
	out    flushio.WriteFlusher
	logfn  func(mess string, args ...interface{})
	extras []Word

	funcs functions
	entry int // synthetic top level loop, never named

	fn int // active function
	pc int // index into the active body, pre-incremented; -1 before the first fetch

	mode     mode
	defining *compiled // definition in progress while compiling
	defName  string

	stack       []Number
	rstack      []frame
	rstackLimit int

	halted   bool
	reported int // recovered errors
}

func (vm *VM) init() {
	if vm.funcs.size() > 0 {
		return
	}

	// the top level loop comes first, so that its id is 0
	loop := opRead
	if _, ok := vm.in.(prompter); ok {
		loop = opPrompt
	}
	vm.entry = vm.funcs.define("", &compiled{[]instruction{
		{op: loop},
		{op: opJump, arg: -2},
	}})

	for _, words := range [][]Word{baseWords, vm.extras} {
		for _, w := range words {
			vm.funcs.define(w.Name, native{w.Run, w.Immediate})
		}
	}

	vm.fn, vm.pc = vm.entry, -1
}

func (vm *VM) run(ctx context.Context) error {
	vm.init()
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	for !vm.halted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vm.step(); err != nil {
			if err = vm.abort(err); err != nil {
				return err
			}
		}
	}
	vm.logf("halt")
	return vm.out.Flush()
}

// step fetches and dispatches one instruction.
func (vm *VM) step() error {
	vm.pc++
	body := vm.funcs.body(vm.fn)
	if vm.pc < 0 || vm.pc >= len(body) {
		return progError{vm.fn, vm.pc}
	}
	ins := body[vm.pc]
	if vm.logfn != nil {
		vm.logf("exec %v:%v %v -- r:%v s:%v", vm.fn, vm.pc, ins, vm.rstack, vm.stack)
	}

	switch ins.op {
	case opCall:
		if _, ok := vm.funcs.get(ins.arg); !ok {
			break
		}
		return vm.invoke(ins.arg)
	case opJump:
		vm.pc += ins.arg
		return nil
	case opPrompt:
		return vm.prompt()
	case opRead:
		// once halted, finish the unit like prompt would
		more, err := vm.read()
		for err == nil && more && vm.halted {
			more, err = vm.read()
		}
		return err
	case opPush:
		vm.push(ins.num)
		return nil
	case opReturn:
		return vm.ret()
	}
	return instructionError{vm.fn, vm.pc, ins}
}

// invoke runs a native function now; a compiled one is entered by saving the
// caller on the return stack, and is then run by the dispatch loop.
func (vm *VM) invoke(id int) error {
	fn, _ := vm.funcs.get(id)
	switch def := fn.def.(type) {
	case *compiled:
		if limit := vm.rstackLimit; limit > 0 && len(vm.rstack) >= limit {
			return errRetOverflow
		}
		vm.rstack = append(vm.rstack, frame{vm.fn, vm.pc})
		vm.fn, vm.pc = id, -1
	case native:
		if err := def.run(vm); err != nil {
			if _, isWordErr := err.(wordError); !isWordErr {
				err = wordError{fn.name, err}
			}
			return err
		}
	}
	return nil
}

func (vm *VM) ret() error {
	i := len(vm.rstack) - 1
	if i < 0 {
		return errRetUnderflow
	}
	caller := vm.rstack[i]
	vm.rstack = vm.rstack[:i]
	vm.fn, vm.pc = caller.fn, caller.pc
	return nil
}

// abort recovers from any non-fatal error: the user is told through the input
// source, and the VM drops any calls in progress, going back to its top level
// loop. Fatal errors are returned.
func (vm *VM) abort(err error) error {
	kind := KindOf(err)
	if kind == Fatal {
		return err
	}
	vm.reported++
	vm.logf("abort %v: %v", kind, err)
	vm.flush()
	vm.in.Recover(errorMessage(err))
	vm.rstack = vm.rstack[:0]
	vm.fn, vm.pc = vm.entry, -1
	return nil
}

func (vm *VM) push(n Number) {
	vm.stack = append(vm.stack, n)
}

func (vm *VM) need(n int) error {
	if len(vm.stack) < n {
		return errStackUnderflow
	}
	return nil
}

func (vm *VM) pop() (Number, error) {
	i := len(vm.stack) - 1
	if i < 0 {
		return Number{}, errStackUnderflow
	}
	n := vm.stack[i]
	vm.stack = vm.stack[:i]
	return n, nil
}

// binary replaces the top two values with op(second, top); on any error the
// stack is left as it was.
func (vm *VM) binary(op func(a, b Number) (Number, error)) error {
	if err := vm.need(2); err != nil {
		return err
	}
	i := len(vm.stack) - 2
	c, err := op(vm.stack[i], vm.stack[i+1])
	if err != nil {
		return err
	}
	vm.stack = append(vm.stack[:i], c)
	return nil
}

func (vm *VM) writeString(s string) {
	if _, err := io.WriteString(vm.out, s); err != nil {
		vm.halt(err)
	}
}

func (vm *VM) flush() {
	if err := vm.out.Flush(); err != nil {
		vm.halt(err)
	}
}

// halt stops the VM with an output error: Run recovers the panic.
func (vm *VM) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if ferr := vm.out.Flush(); err == nil {
			err = ferr
		}
	}()
	vm.logf("halt error: %v", err)
	panic(haltError{err})
}

func (vm *VM) withLogPrefix(prefix string) func() {
	logfn := vm.logfn
	vm.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		vm.logfn = logfn
	}
}

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

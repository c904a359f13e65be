package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/weakforth/internal/input"
	"github.com/jcorbin/weakforth/internal/logio"
	"github.com/jcorbin/weakforth/internal/panicerr"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []VMOption
	input   func(out io.Writer) (TokenSource, error)
	setup   []func(vm *VM)
	ops     []func(vm *VM) error
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error
	noTrace bool

	wantKind    ErrorKind
	checkKind   bool
	exclusive   bool
	traceOutput *bytes.Buffer
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

// withInput reads lines interactively, through a scanner that writes prompts
// into the VM's output.
func (vmt vmTestCase) withInput(lines ...string) vmTestCase {
	text := strings.Join(lines, "\n")
	vmt.input = func(out io.Writer) (TokenSource, error) {
		return input.NewLines("input", input.NewScanner(strings.NewReader(text), out), out), nil
	}
	return vmt
}

// withFile reads src as a batch file named "test".
func (vmt vmTestCase) withFile(src string) vmTestCase {
	vmt.input = func(out io.Writer) (TokenSource, error) {
		return input.Load("test", strings.NewReader(src), out)
	}
	return vmt
}

func (vmt vmTestCase) withStack(values ...interface{}) vmTestCase {
	stack := nums(values...)
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.stack = append(vm.stack, stack...)
	}))
	return vmt
}

func (vmt vmTestCase) withWords(words ...Word) vmTestCase {
	vmt.opts = append(vmt.opts, WithWords(words...))
	return vmt
}

func (vmt vmTestCase) withReturnStackLimit(n int) vmTestCase {
	vmt.opts = append(vmt.opts, WithReturnStackLimit(n))
	return vmt
}

func (vmt vmTestCase) withMode(m mode) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		vm.mode = m
		if m == compileMode && vm.defining == nil {
			vm.defining = &compiled{}
			vm.defName = "test"
			vm.funcs.define(vm.defName, vm.defining)
		}
	})
	return vmt
}

// withDefinition adds a compiled body directly to the function table,
// bypassing the compiler.
func (vmt vmTestCase) withDefinition(name string, body ...instruction) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		vm.funcs.define(name, &compiled{body})
	})
	return vmt
}

// withEntry starts the VM in the named function, with an empty return stack.
func (vmt vmTestCase) withEntry(name string) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		id, _ := vm.funcs.lookup(name)
		vm.fn, vm.pc = id, -1
	})
	return vmt
}

func (vmt vmTestCase) withoutTrace() vmTestCase {
	vmt.noTrace = true
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM) error) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectKind(kind ErrorKind) vmTestCase {
	vmt.wantKind = kind
	vmt.checkKind = true
	return vmt
}

func (vmt vmTestCase) expectStack(values ...interface{}) vmTestCase {
	want := nums(values...)
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, want, append([]Number{}, vm.stack...), "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(frames ...frame) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, frames, append([]frame(nil), vm.rstack...), "expected return stack")
	})
	return vmt
}

func (vmt vmTestCase) expectRDepth(depth int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, depth, len(vm.rstack), "expected return stack depth")
	})
	return vmt
}

func (vmt vmTestCase) expectMode(m mode) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, m, vm.mode, "expected mode")
	})
	return vmt
}

func (vmt vmTestCase) expectProg(fn string, pc int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, fn, vm.funcs.name(vm.fn), "expected active function")
		assert.Equal(t, pc, vm.pc, "expected program counter")
	})
	return vmt
}

// expectWord checks a compiled body, with calls written as the callee's name.
func (vmt vmTestCase) expectWord(name string, code ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		id, defined := vm.funcs.lookup(name)
		if !assert.True(t, defined, "expected %q to be defined", name) {
			return
		}
		dump := vmDumper{vm: vm}
		var got []string
		for _, ins := range vm.funcs.body(id) {
			var sb strings.Builder
			dump.formatCode(&sb, ins)
			got = append(got, sb.String())
		}
		assert.Equal(t, code, got, "expected %q code", name)
	})
	return vmt
}

func (vmt vmTestCase) expectFunctions(count int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, count, vm.funcs.size(), "expected function table size")
	})
	return vmt
}

func (vmt vmTestCase) expectErrors(count int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, count, vm.Reported(), "expected recovered errors")
	})
	return vmt
}

func (vmt vmTestCase) expectHalted(halted bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, halted, vm.halted, "expected halted")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vm.Dump(&out)
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	vm := vmt.buildVM(t)
	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := vmt.runVM(ctx, vm)
	switch {
	case vmt.wantErr != nil:
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	case vmt.checkKind:
		if assert.Error(t, err, "expected %v error", vmt.wantKind) {
			assert.Equal(t, vmt.wantKind, KindOf(err), "expected error kind of %v", err)
		}
	default:
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) error {
	if len(vmt.ops) == 0 {
		return vm.Run(ctx)
	}
	return panicerr.Recover("vmTestCase.ops", func() error {
		for i, op := range vmt.ops {
			vm.logf("do[%v]", i)
			if err := op(vm); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (vmt *vmTestCase) buildVM(t *testing.T) *VM {
	var vm VM
	VMOptions(defaultOptions, VMOptions(vmt.opts...)).apply(&vm)

	if vmt.input != nil {
		src, err := vmt.input(vm.out)
		require.NoError(t, err, "unable to create test input")
		withInput(src).apply(&vm)
	}
	if !vmt.noTrace {
		vmt.traceOutput = &bytes.Buffer{}
		ll := &lineLogger{Writer: vmt.traceOutput}
		withLogfn(ll.printf).apply(&vm)
	}

	vm.init()
	for _, setup := range vmt.setup {
		setup(&vm)
	}
	return &vm
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	if vmt.traceOutput != nil {
		io.WriteString(&lw, "# Trace\n")
		vmt.traceOutput.WriteTo(&lw)
		io.WriteString(&lw, "\n")
	}
	vm.Dump(&lw)
	fmt.Fprintf(&lw, "# Values\n%v\n", repr.String(vm.stack, repr.Indent("  ")))
}

//// utilities

// nums converts ints and floats into stack values.
func nums(values ...interface{}) []Number {
	ns := make([]Number, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case int:
			ns = append(ns, Int(int64(v)))
		case int64:
			ns = append(ns, Int(v))
		case float64:
			ns = append(ns, Float(v))
		case Number:
			ns = append(ns, v)
		default:
			panic(fmt.Sprintf("unsupported stack value %T", value))
		}
	}
	return ns
}

// resolving returns an op that resolves each token in turn.
func resolving(tokens ...string) func(vm *VM) error {
	return func(vm *VM) error {
		for _, token := range tokens {
			if err := vm.resolve(token); err != nil {
				return err
			}
		}
		return nil
	}
}

// prompted renders interactive output: each read line is preceded by its
// prompt, and a final prompt is shown before input runs out.
func prompted(parts ...string) string {
	return strings.Join(parts, "") + "\n> "
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

type lineLogger struct {
	io.Writer
	prior bool
}

func (ll *lineLogger) printf(mess string, args ...interface{}) {
	if ll.prior {
		io.WriteString(ll.Writer, "\n")
	} else {
		ll.prior = true
	}
	fmt.Fprintf(ll.Writer, mess, args...)
}

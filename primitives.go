package main

import "strings"

// baseWords is registered, in order, right after the top level loop.
var baseWords = []Word{
	// Definition
	{Name: ":", Run: (*VM).define},
	{Name: ";", Run: (*VM).endDefine, Immediate: true},

	// Display
	{Name: ".", Run: (*VM).printTop},
	{Name: "..", Run: (*VM).printStack},

	// Arithmetic, with the second-from-top value on the left: 3 4 - is -1
	{Name: "+", Run: (*VM).add},
	{Name: "-", Run: (*VM).sub},
	{Name: "*", Run: (*VM).mul},
	{Name: "/", Run: (*VM).div},

	// Stack manipulation
	{Name: "dup", Run: (*VM).dup},
	{Name: "pop", Run: (*VM).drop},
	{Name: "clr", Run: (*VM).clear},
	{Name: "swp", Run: (*VM).swap},

	// Process control
	{Name: "exit", Run: (*VM).exit},
}

func (vm *VM) add() error { return vm.binary(Number.add) }
func (vm *VM) sub() error { return vm.binary(Number.sub) }
func (vm *VM) mul() error { return vm.binary(Number.mul) }
func (vm *VM) div() error { return vm.binary(Number.div) }

func (vm *VM) dup() error {
	if err := vm.need(1); err != nil {
		return err
	}
	vm.push(vm.stack[len(vm.stack)-1])
	return nil
}

func (vm *VM) drop() error {
	_, err := vm.pop()
	return err
}

func (vm *VM) clear() error {
	vm.stack = vm.stack[:0]
	return nil
}

func (vm *VM) swap() error {
	if err := vm.need(2); err != nil {
		return err
	}
	i := len(vm.stack) - 2
	vm.stack[i], vm.stack[i+1] = vm.stack[i+1], vm.stack[i]
	return nil
}

// printTop prints the top of the stack without popping it.
func (vm *VM) printTop() error {
	if i := len(vm.stack) - 1; i >= 0 {
		vm.writeString(vm.stack[i].String() + "\n")
	} else {
		vm.writeString("<empty>\n")
	}
	return nil
}

func (vm *VM) printStack() error {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, n := range vm.stack {
		sb.WriteString(n.String())
		sb.WriteByte(' ')
	}
	sb.WriteString("]\n")
	vm.writeString(sb.String())
	return nil
}

// exit stops the dispatch loop after the current instruction.
func (vm *VM) exit() error {
	vm.halted = true
	return nil
}

package main

import "fmt"

type opCode uint8

const (
	opInvalid opCode = iota

	opCall   // call the function table entry arg
	opJump   // add arg to the program counter
	opPrompt // prompt when nothing is buffered, then resolve tokens to the end of the unit
	opRead   // resolve one token
	opPush   // push num onto the data stack
	opReturn // restore the caller's function and program counter

	opMax
)

var opNames = [opMax]string{
	"invalid",
	"call",
	"jump",
	"prompt",
	"read",
	"push",
	"return",
}

func (op opCode) String() string {
	if op < opMax {
		return opNames[op]
	}
	return fmt.Sprintf("op%d", uint8(op))
}

// instruction is one element of a compiled body; arg is only meaningful for
// call and jump, num only for push.
type instruction struct {
	op  opCode
	arg int
	num Number
}

func (ins instruction) String() string {
	switch ins.op {
	case opCall, opJump:
		return fmt.Sprintf("%v(%v)", ins.op, ins.arg)
	case opPush:
		return fmt.Sprintf("%v(%v)", ins.op, ins.num)
	}
	return ins.op.String()
}

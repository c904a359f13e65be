package main

import (
	"errors"
	"fmt"
)

var (
	errDivideByZero   = errors.New("division by zero")
	errStackUnderflow = errors.New("stack underflow")
	errRetOverflow    = errors.New("return stack overflow")
	errRetUnderflow   = errors.New("return stack underflow")
)

// unresolvedError is a token that names no function, and is not a number.
type unresolvedError string

// duplicateError is a name given to : that is already defined.
type duplicateError string

func (tok unresolvedError) Error() string {
	return fmt.Sprintf("`%v` not a function or a number", string(tok))
}

func (name duplicateError) Error() string {
	return fmt.Sprintf("function already defined: %v", string(name))
}

// instructionError is an instruction that the dispatch loop cannot execute.
type instructionError struct {
	fn, pc int
	ins    instruction
}

func (ie instructionError) Error() string {
	return fmt.Sprintf("invalid instruction %v at %v:%v", ie.ins, ie.fn, ie.pc)
}

// progError is a program counter outside of the active function's body.
type progError struct{ fn, pc int }

func (pe progError) Error() string {
	return fmt.Sprintf("program counter out of bounds at %v:%v", pe.fn, pe.pc)
}

// wordError attributes an error to the native word that raised it.
type wordError struct {
	word string
	err  error
}

func (we wordError) Error() string { return fmt.Sprintf("%v in `%v`", we.err, we.word) }
func (we wordError) Unwrap() error { return we.err }

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

// ErrorKind classifies VM errors. Every kind other than Fatal is recovered
// from: reported through the input source, after which the VM aborts back to
// its top level loop.
type ErrorKind uint8

const (
	Fatal ErrorKind = iota
	UnresolvedToken
	DuplicateDefinition
	InvalidInstruction
	StackUnderflow
	ReturnStackOverflow
	DivisionByZero
)

var errorKindNames = [...]string{
	"Fatal",
	"UnresolvedToken",
	"DuplicateDefinition",
	"InvalidInstruction",
	"StackUnderflow",
	"ReturnStackOverflow",
	"DivisionByZero",
}

func (kind ErrorKind) String() string {
	if int(kind) < len(errorKindNames) {
		return errorKindNames[kind]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(kind))
}

// KindOf classifies err; nil and unknown errors are Fatal.
// Return stack underflow is Fatal: well formed code never causes it.
func KindOf(err error) ErrorKind {
	var (
		unres unresolvedError
		dup   duplicateError
		inst  instructionError
	)
	switch {
	case err == nil:
		return Fatal
	case errors.As(err, &unres):
		return UnresolvedToken
	case errors.As(err, &dup):
		return DuplicateDefinition
	case errors.As(err, &inst):
		return InvalidInstruction
	case errors.Is(err, errStackUnderflow):
		return StackUnderflow
	case errors.Is(err, errRetOverflow):
		return ReturnStackOverflow
	case errors.Is(err, errDivideByZero):
		return DivisionByZero
	}
	return Fatal
}

// errorMessage renders a recoverable error for the user.
func errorMessage(err error) string {
	var (
		dup  duplicateError
		inst instructionError
	)
	switch {
	case errors.As(err, &dup):
		return fmt.Sprintf("Function already defined: %v", string(dup))
	case errors.As(err, &inst):
		return fmt.Sprintf("Invalid instruction: %v at %v:%v", inst.ins, inst.fn, inst.pc)
	}
	return "Error: " + err.Error()
}

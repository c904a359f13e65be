package main

import "io"

// TokenSource supplies whitespace-delimited tokens to the VM.
// The input package implements it for terminals, pipes and files.
type TokenSource interface {
	// Buffered returns true if NextToken can return without reading more input.
	Buffered() bool

	// NextToken returns the next token; "" marks the end of an input unit.
	NextToken() (string, error)

	// Recover reports a message to the user, and discards buffered input.
	Recover(msg string)

	// PrependEmptyUnit forces the next token to be an end of unit.
	PrependEmptyUnit()
}

// prompter is implemented by interactive sources: the prompt is shown before
// the next line is read. Non-interactive sources get a top level loop that
// reads a token at a time instead of prompting.
type prompter interface {
	Prompt(prompt string)
}

type noInput struct{}

func (noInput) Buffered() bool             { return false }
func (noInput) NextToken() (string, error) { return "", io.EOF }
func (noInput) Recover(msg string)         {}
func (noInput) PrependEmptyUnit()          {}

package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReader reads one line of user input, after displaying prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Lines is an interactive token source: a line is read only when every
// buffered token has been consumed, using the prompt most recently set.
type Lines struct {
	lr     LineReader
	out    io.Writer
	prompt string
	q      queue
	loc    Location
}

// NewLines creates an interactive source reading from lr; recovery messages
// are written to out.
func NewLines(name string, lr LineReader, out io.Writer) *Lines {
	return &Lines{
		lr:  lr,
		out: out,
		loc: Location{Name: name},
	}
}

// Prompt sets the prompt shown when the next line is read.
func (ls *Lines) Prompt(prompt string) { ls.prompt = prompt }

// Location returns the name and number of the last line read.
func (ls *Lines) Location() Location { return ls.loc }

// Buffered returns true if tokens remain from the last line read.
func (ls *Lines) Buffered() bool { return ls.q.len() > 0 }

// NextToken returns the next token, reading a new line if needed; "" marks
// the end of each line. Any read error, like io.EOF, is returned as-is.
func (ls *Lines) NextToken() (string, error) {
	if ls.q.len() == 0 {
		prompt := ls.prompt
		ls.prompt = ""
		line, err := ls.lr.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		ls.loc.Line++
		for _, field := range strings.Fields(line) {
			ls.q.push(field, ls.loc)
		}
		ls.q.push("", ls.loc)
	}
	return ls.q.shift().text, nil
}

// PrependEmptyUnit makes the next token an end of unit marker.
func (ls *Lines) PrependEmptyUnit() { ls.q.unshift("", ls.loc) }

// Recover prints msg, and discards the rest of the current line.
func (ls *Lines) Recover(msg string) {
	fmt.Fprintln(ls.out, msg)
	ls.q.reset()
	ls.q.push("", ls.loc)
}

type scanner struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScanner returns a LineReader for non-terminal input, like a pipe; the
// prompt is simply written to out.
func NewScanner(r io.Reader, out io.Writer) LineReader {
	return scanner{bufio.NewScanner(r), out}
}

func (s scanner) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(s.out, prompt); err != nil {
			return "", err
		}
	}
	if !s.sc.Scan() {
		err := s.sc.Err()
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	return s.sc.Text(), nil
}

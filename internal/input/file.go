package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// File is a batch token source: the whole file is read up front, each line
// becomes an input unit, and a final "exit" unit stops the interpreter once
// the file is exhausted.
type File struct {
	out  io.Writer
	q    queue
	last Location
}

// Open loads the named file; recovery messages are written to out.
func Open(name string, out io.Writer) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(name, f, out)
}

// Load preloads every token from r, skipping a leading "#!" interpreter line.
func Load(name string, r io.Reader, out io.Writer) (*File, error) {
	fi := &File{out: out}
	fi.last.Name = name

	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024)
	loc := Location{Name: name}
	for sc.Scan() {
		loc.Line++
		line := sc.Text()
		if loc.Line == 1 && strings.HasPrefix(line, "#!") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		for _, field := range fields {
			fi.q.push(field, loc)
		}
		fi.q.push("", loc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", name, err)
	}

	loc.Line++
	fi.pushExit(loc)
	return fi, nil
}

func (fi *File) pushExit(loc Location) {
	fi.q.push("exit", loc)
	fi.q.push("", loc)
}

// Location returns where the most recently read token came from.
func (fi *File) Location() Location { return fi.last }

// Buffered returns true while any token remains.
func (fi *File) Buffered() bool { return fi.q.len() > 0 }

// NextToken returns the next token, "" at the end of each line, or io.EOF
// once everything (including the final exit) has been consumed.
func (fi *File) NextToken() (string, error) {
	if fi.q.len() == 0 {
		return "", io.EOF
	}
	tok := fi.q.shift()
	fi.last = tok.loc
	return tok.text, nil
}

// PrependEmptyUnit makes the next token an end of unit marker.
func (fi *File) PrependEmptyUnit() { fi.q.unshift("", fi.last) }

// Recover reports msg at the current location, then discards the rest of the
// file so that the interpreter exits instead of carrying on.
func (fi *File) Recover(msg string) {
	fmt.Fprintf(fi.out, "%v: %v\n", fi.last, msg)
	fi.q.reset()
	fi.pushExit(fi.last)
}

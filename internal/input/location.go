// Package input implements the token sources that feed the interpreter: an
// interactive line-buffered source, and a preloaded file source.
//
// Both deliver whitespace-delimited tokens one at a time, with an empty token
// marking the end of each input unit (a line).
package input

import "fmt"

// Location names a line in an input file.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string {
	if loc.Line == 0 {
		return loc.Name
	}
	return fmt.Sprintf("%v:%v", loc.Name, loc.Line)
}

type token struct {
	text string
	loc  Location
}

// queue is a token deque; tokens are consumed from the front, and a unit
// boundary may be pushed back onto the front.
type queue struct {
	toks []token
	head int
}

func (q *queue) len() int { return len(q.toks) - q.head }

func (q *queue) push(text string, loc Location) {
	q.toks = append(q.toks, token{text, loc})
}

func (q *queue) unshift(text string, loc Location) {
	if q.head > 0 {
		q.head--
		q.toks[q.head] = token{text, loc}
		return
	}
	q.toks = append([]token{{text, loc}}, q.toks...)
}

func (q *queue) shift() (tok token) {
	tok = q.toks[q.head]
	q.toks[q.head] = token{}
	if q.head++; q.head == len(q.toks) {
		q.reset()
	}
	return tok
}

func (q *queue) reset() {
	q.toks = q.toks[:0]
	q.head = 0
}

package input

import (
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// IsTerminal returns true if f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Readline is a LineReader with line editing and history.
type Readline struct {
	rl *readline.Instance
}

// NewReadline sets up terminal line editing; history is kept in historyFile
// unless it is empty.
func NewReadline(historyFile string) (*Readline, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return nil, err
	}
	return &Readline{rl}, nil
}

// ReadLine reads a line; an interrupt discards the line being edited and
// returns an empty line. Leading newlines in prompt are written out before
// editing starts, since readline only renders single line prompts.
func (r *Readline) ReadLine(prompt string) (string, error) {
	if rest := strings.TrimLeft(prompt, "\n"); len(rest) < len(prompt) {
		if _, err := io.WriteString(r.rl.Stdout(), prompt[:len(prompt)-len(rest)]); err != nil {
			return "", err
		}
		prompt = rest
	}
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", nil
	}
	return line, err
}

// Stdout returns a writer that cooperates with the line editor.
func (r *Readline) Stdout() io.Writer { return r.rl.Stdout() }

// Close restores the terminal.
func (r *Readline) Close() error { return r.rl.Close() }

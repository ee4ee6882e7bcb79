package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// Ensure readers implement the interface.
var (
	_ driven.LineReader = (*ScannerReader)(nil)
	_ driven.LineReader = (*TerminalReader)(nil)
)

// ScannerReader reads lines from a non-interactive input such as a pipe.
// The prompt is written before each read when a prompt writer is set.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer

	mu     sync.Mutex
	prompt string
}

// NewScannerReader creates a reader over in. Prompts go to out, which may be nil.
func NewScannerReader(in io.Reader, out io.Writer, prompt string) *ScannerReader {
	return &ScannerReader{
		scanner: bufio.NewScanner(in),
		prompt:  prompt,
		out:     out,
	}
}

// ReadLine returns the next line, or io.EOF at end of input.
func (r *ScannerReader) ReadLine() (string, error) {
	r.mu.Lock()
	prompt := r.prompt
	r.mu.Unlock()

	if r.out != nil && prompt != "" {
		_, _ = io.WriteString(r.out, prompt)
	}
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("scan input: %w", err)
	}
	return "", io.EOF
}

// SetPrompt changes the prompt written before the next read.
func (r *ScannerReader) SetPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompt = prompt
}

// TerminalReader reads lines from a raw-mode terminal with line editing and
// history. Output written through Writer does not corrupt the prompt line.
type TerminalReader struct {
	terminal *term.Terminal
	fd       int
	state    *term.State

	once sync.Once
}

// NewTerminalReader puts the terminal fd into raw mode and reads lines from
// rw. Close must be called to restore the terminal.
func NewTerminalReader(fd int, rw io.ReadWriter, prompt string) (*TerminalReader, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return &TerminalReader{
		terminal: term.NewTerminal(rw, prompt),
		fd:       fd,
		state:    state,
	}, nil
}

// ReadLine returns the next line. Ctrl-D on an empty line returns io.EOF.
func (r *TerminalReader) ReadLine() (string, error) {
	return r.terminal.ReadLine()
}

// SetPrompt changes the prompt shown for the next line.
func (r *TerminalReader) SetPrompt(prompt string) {
	r.terminal.SetPrompt(prompt)
}

// Writer returns a writer that prints above the prompt line.
func (r *TerminalReader) Writer() io.Writer {
	return r.terminal
}

// Close restores the terminal state.
func (r *TerminalReader) Close() error {
	var err error
	r.once.Do(func() {
		err = term.Restore(r.fd, r.state)
	})
	return err
}

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

package console

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// Ensure Console implements the interface.
var _ driven.Console = (*Console)(nil)

// Console writes session output to a terminal or any io.Writer.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	styles *Styles
}

// Option configures a Console.
type Option func(*Console)

// WithStyles overrides the styles used for notices and errors.
func WithStyles(styles *Styles) Option {
	return func(c *Console) {
		if styles != nil {
			c.styles = styles
		}
	}
}

// New creates a console writing to w. Notices and errors are coloured when
// color is set and w supports it.
func New(w io.Writer, color bool, opts ...Option) *Console {
	c := &Console{
		w:     w,
		color: color,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.styles == nil {
		c.styles = NewStyles(lipgloss.NewRenderer(w), nil)
	}
	return c
}

// Print writes msg followed by a newline.
func (c *Console) Print(msg string) {
	c.write(msg, nil)
}

// Notice writes an informational message.
func (c *Console) Notice(msg string) {
	c.write(msg, &c.styles.Notice)
}

// Error writes an error message.
func (c *Console) Error(msg string) {
	c.write(msg, &c.styles.Error)
}

func (c *Console) write(msg string, style *lipgloss.Style) {
	if c.color && style != nil {
		// Styled per line; lipgloss pads multi-line blocks to equal width.
		lines := strings.Split(msg, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = style.Render(line)
			}
		}
		msg = strings.Join(lines, "\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, msg+"\n")
}

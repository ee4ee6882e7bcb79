package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.Transport = (*Sink)(nil)

// Named outputs accepted by Open.
const (
	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputDiscard = "discard"
)

// Sink writes controller reports as text lines.
type Sink struct {
	limiter *rate.Limiter

	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	closed bool
	sent   int
}

// NewSink creates a sink writing to w at most maxPerSecond reports per
// second. Zero or less disables throttling.
func NewSink(w io.Writer, maxPerSecond int) *Sink {
	s := &Sink{w: w}
	if maxPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(maxPerSecond), 1)
	}
	return s
}

// Open creates a sink for a named output or a file path.
// Files are appended to and closed with the sink.
func Open(output string, maxPerSecond int) (*Sink, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", OutputStdout:
		return NewSink(os.Stdout, maxPerSecond), nil
	case OutputStderr:
		return NewSink(os.Stderr, maxPerSecond), nil
	case OutputDiscard:
		return NewSink(io.Discard, maxPerSecond), nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open transport output: %w", err)
	}
	s := NewSink(f, maxPerSecond)
	s.closer = f
	return s, nil
}

// Send writes one report, waiting for the rate limiter first.
func (s *Sink) Send(ctx context.Context, snapshot domain.ControllerSnapshot) error {
	if s.isClosed() {
		return domain.ErrNotConnected
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Closed while waiting for the limiter.
	if s.closed {
		return domain.ErrNotConnected
	}
	if _, err := fmt.Fprintln(s.w, snapshot.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	s.sent++
	return nil
}

// Close disconnects the sink. It is safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Sent returns the number of reports written.
func (s *Sink) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func (s *Sink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

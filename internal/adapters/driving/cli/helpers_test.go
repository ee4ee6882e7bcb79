package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/padctl/internal/adapters/driven/controller"
	"github.com/custodia-labs/padctl/internal/adapters/driven/transport"
	"github.com/custodia-labs/padctl/internal/core/domain"
)

// syncBuffer is a bytes.Buffer safe for concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testSession is a session over a real virtual controller and sink.
type testSession struct {
	session *Session
	sink    *transport.Sink
	reports *syncBuffer
	opened  []SessionOptions
}

func useTestSession(t *testing.T, kind domain.ControllerKind) *testSession {
	t.Helper()

	reports := &syncBuffer{}
	sink := transport.NewSink(reports, 0)
	ctrl, err := controller.New(kind, sink, 0)
	require.NoError(t, err)

	cfg := domain.DefaultSessionConfig()
	cfg.Controller = kind
	cfg.Color = false
	cfg.PressDuration = 0

	ts := &testSession{
		session: &Session{Config: cfg, ConfigPath: "test.toml", Controller: ctrl, Transport: sink},
		sink:    sink,
		reports: reports,
	}
	SetSessionFactory(func(opts SessionOptions) (*Session, error) {
		ts.opened = append(ts.opened, opts)
		return ts.session, nil
	})
	t.Cleanup(func() { SetSessionFactory(nil) })
	return ts
}

// runRoot executes the root command with input and returns its output.
func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return runRootReader(t, strings.NewReader(input), args...)
}

func runRootReader(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	out := &syncBuffer{}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// gatedReader blocks reads until gate is closed.
type gatedReader struct {
	gate <-chan struct{}
	r    io.Reader
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.gate
	return g.r.Read(p)
}

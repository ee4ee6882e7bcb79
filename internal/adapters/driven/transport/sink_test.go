package transport

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func snapshot(pressed ...string) domain.ControllerSnapshot {
	return domain.ControllerSnapshot{
		Pressed: pressed,
		Left:    domain.CenteredStick(),
		Right:   domain.CenteredStick(),
	}
}

func TestSink_Send(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSink(buf, 0)

	require.NoError(t, s.Send(context.Background(), snapshot("a")))
	require.NoError(t, s.Send(context.Background(), snapshot()))

	assert.Equal(t, snapshot("a").String()+"\n"+snapshot().String()+"\n", buf.String())
	assert.Equal(t, 2, s.Sent())
}

func TestSink_Close(t *testing.T) {
	s := NewSink(&syncBuffer{}, 0)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.Send(context.Background(), snapshot())
	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.Zero(t, s.Sent())
}

func TestSink_Throttles(t *testing.T) {
	s := NewSink(&syncBuffer{}, 50)

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Send(context.Background(), snapshot()))
	}

	// One token up front, then one every 20ms.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSink_ThrottleHonoursContext(t *testing.T) {
	s := NewSink(&syncBuffer{}, 1)
	require.NoError(t, s.Send(context.Background(), snapshot()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, snapshot())
	assert.Error(t, err)
	assert.Equal(t, 1, s.Sent())
}

func TestSink_ConcurrentSends(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSink(buf, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Send(context.Background(), snapshot("a")))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Sent())
}

func TestOpen_NamedOutputs(t *testing.T) {
	for _, output := range []string{"", "stdout", "STDERR", "discard"} {
		t.Run(output, func(t *testing.T) {
			s, err := Open(output, 0)
			require.NoError(t, err)
			assert.Nil(t, s.closer)
			require.NoError(t, s.Close())
		})
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.log")

	s, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), snapshot("b")))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snapshot("b").String()+"\n", string(data))
}

func TestOpen_FileError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "reports.log"), 0)
	assert.Error(t, err)
}

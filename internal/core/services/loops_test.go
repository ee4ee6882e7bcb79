package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

func newTestLoopManager() (*LoopManager, *fakeController, *recordingConsole) {
	controller := newFakeController()
	console := &recordingConsole{}
	return NewLoopManager(controller, console), controller, console
}

// shutdown stops every loop and waits for the goroutines to exit.
func shutdown(t *testing.T, m *LoopManager) {
	t.Helper()
	m.StopAll()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
}

func TestLoopManager_StartPresses(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, controller, _ := newTestLoopManager()

	msg, err := m.Start(context.Background(), "a", "5")

	require.NoError(t, err)
	assert.Equal(t, `Started repeat for "a" every 5 ms.`, msg)
	require.Eventually(t, func() bool { return controller.pushCount() >= 3 }, time.Second, time.Millisecond)
	for _, push := range controller.allPushes() {
		assert.Equal(t, []string{"a"}, push)
	}

	shutdown(t, m)
	assert.Empty(t, m.List())
}

func TestLoopManager_StartTwiceFails(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, _ := newTestLoopManager()

	_, err := m.Start(context.Background(), "a", "50")
	require.NoError(t, err)

	_, err = m.Start(context.Background(), "a", "50")
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)
	assert.Contains(t, err.Error(), "repeat_stop a")

	m.Stop("a")
	msg, err := m.Start(context.Background(), "a", "50")
	require.NoError(t, err)
	assert.Contains(t, msg, `"a"`)
	assert.Equal(t, []string{"a"}, m.List())

	shutdown(t, m)
}

func TestLoopManager_AlreadyActiveCheckedBeforePeriod(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, _ := newTestLoopManager()

	_, err := m.Start(context.Background(), "a", "50")
	require.NoError(t, err)

	_, err = m.Start(context.Background(), "a", "not-a-number")
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)

	shutdown(t, m)
}

func TestLoopManager_InvalidPeriod(t *testing.T) {
	m, controller, _ := newTestLoopManager()

	_, err := m.Start(context.Background(), "a", "fast")

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, m.List())
	assert.Equal(t, 0, controller.pushCount())
}

func TestLoopManager_PeriodClampedToOneMillisecond(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, _ := newTestLoopManager()

	msg, err := m.Start(context.Background(), "b", "-5")

	require.NoError(t, err)
	assert.Equal(t, `Started repeat for "b" every 1 ms.`, msg)
	status := m.Status()
	require.Len(t, status, 1)
	assert.Equal(t, time.Millisecond, status[0].Period)

	shutdown(t, m)
}

func TestLoopManager_StopWithoutLoop(t *testing.T) {
	m, _, _ := newTestLoopManager()

	msg := m.Stop("a")

	assert.Equal(t, `No active repeat for "a".`, msg)
	assert.Empty(t, m.List())
}

func TestLoopManager_StopFinishedLoop(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, console := newTestLoopManager()

	// Not a button: the loop reports and finishes on its own.
	_, err := m.Start(context.Background(), "zz", "10")
	require.NoError(t, err)
	shutdown(t, m)

	require.Len(t, console.allErrors(), 1)
	assert.Contains(t, console.allErrors()[0], `Button "zz" is not valid`)

	msg := m.Stop("zz")
	assert.Equal(t, `No active repeat for "zz".`, msg)
	assert.Empty(t, m.List())
}

func TestLoopManager_StopThenListRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewLoopManager(newFakeController("A"), &recordingConsole{})

	_, err := m.Start(context.Background(), "A", "100")
	require.NoError(t, err)
	assert.Contains(t, m.List(), "A")

	assert.Equal(t, `Stopped repeat for "A".`, m.Stop("A"))
	require.Eventually(t, func() bool {
		for _, key := range m.List() {
			if key == "A" {
				return false
			}
		}
		return true
	}, time.Second, time.Millisecond)

	shutdown(t, m)
}

func TestLoopManager_ListSorted(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, _ := newTestLoopManager()

	for _, key := range []string{"y", "a", "x"} {
		_, err := m.Start(context.Background(), key, "20")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "x", "y"}, m.List())

	status := m.Status()
	require.Len(t, status, 3)
	assert.Equal(t, "a", status[0].Key)
	assert.NotEmpty(t, status[0].RunID)
	assert.NotEqual(t, status[0].RunID, status[1].RunID)
	assert.Equal(t, domain.LoopStateActive, status[0].State)

	shutdown(t, m)
}

func TestLoopManager_ConnectivityLossEndsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, controller, console := newTestLoopManager()
	controller.setPushErr(domain.ErrNotConnected)

	_, err := m.Start(context.Background(), "a", "5")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(m.List()) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, m.Wait(context.Background()))
	assert.Equal(t, []string{"Connection lost during repeat; stopping loop."}, console.allErrors())

	// The key is free again immediately.
	controller.setPushErr(nil)
	_, err = m.Start(context.Background(), "a", "5")
	require.NoError(t, err)

	shutdown(t, m)
}

func TestLoopManager_UnexpectedErrorEndsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, controller, console := newTestLoopManager()
	controller.setPushErr(errors.New("report buffer full"))

	_, err := m.Start(context.Background(), "b", "5")
	require.NoError(t, err)
	require.NoError(t, m.Wait(context.Background()))

	require.Len(t, console.allErrors(), 1)
	assert.Equal(t, "Error in repeat(b): report buffer full", console.allErrors()[0])
	assert.Empty(t, m.List())
}

func TestLoopManager_StopAllCancelsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, console := newTestLoopManager()

	_, err := m.Start(context.Background(), "a", "10")
	require.NoError(t, err)
	_, err = m.Start(context.Background(), "b", "10")
	require.NoError(t, err)
	require.Len(t, m.List(), 2)

	m.StopAll()

	assert.Empty(t, m.List())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
	assert.Empty(t, console.allErrors(), "cancellation must be silent")
}

func TestLoopManager_LoopOutlivesStartContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, controller, _ := newTestLoopManager()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := m.Start(ctx, "a", "2")
	require.NoError(t, err)
	cancel()

	before := controller.pushCount()
	require.Eventually(t, func() bool { return controller.pushCount() > before+2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"a"}, m.List())

	shutdown(t, m)
}

func TestLoopManager_WaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _, _ := newTestLoopManager()

	_, err := m.Start(context.Background(), "a", "10")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Wait(ctx), context.DeadlineExceeded)

	shutdown(t, m)
}

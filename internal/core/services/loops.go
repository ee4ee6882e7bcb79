package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/core/ports/driving"
	"github.com/custodia-labs/padctl/internal/logger"
)

// Ensure LoopManager implements the interface.
var _ driving.LoopManager = (*LoopManager)(nil)

// loopEntry is the registry record of one loop goroutine.
type loopEntry struct {
	task   domain.LoopTask
	cancel context.CancelFunc
	done   chan struct{}
}

func (e *loopEntry) active() bool {
	return e.task.State == domain.LoopStateActive
}

// LoopManager runs repeat loops keyed by button name.
// Every loop shares the same controller; the controller serialises pushes.
type LoopManager struct {
	controller driven.Controller
	console    driven.Console

	mu    sync.Mutex
	loops map[string]*loopEntry
	wg    sync.WaitGroup
}

// NewLoopManager creates a loop manager that presses buttons on controller
// and reports loop failures to console.
func NewLoopManager(controller driven.Controller, console driven.Console) *LoopManager {
	return &LoopManager{
		controller: controller,
		console:    console,
		loops:      make(map[string]*loopEntry),
	}
}

// Start begins a loop pressing key every periodMillis milliseconds.
// A loop that was stopped but has not exited yet is waited for, so at most
// one goroutine presses a given key. The loop outlives ctx; only Stop or
// StopAll end it.
func (m *LoopManager) Start(ctx context.Context, key, periodMillis string) (string, error) {
	for {
		m.mu.Lock()
		existing, ok := m.loops[key]
		if !ok {
			break
		}
		if existing.active() {
			m.mu.Unlock()
			return "", fmt.Errorf(`%w for "%s", use: repeat_stop %s`, domain.ErrAlreadyActive, key, key)
		}
		done := existing.done
		m.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	defer m.mu.Unlock()

	millis, err := strconv.Atoi(strings.TrimSpace(periodMillis))
	if err != nil {
		return "", fmt.Errorf("%w: interval_ms must be an integer (milliseconds)", domain.ErrInvalidArgument)
	}
	period := domain.ClampLoopPeriod(millis)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	entry := &loopEntry{
		task: domain.LoopTask{
			Key:       key,
			RunID:     uuid.NewString(),
			Period:    period,
			State:     domain.LoopStateActive,
			StartedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.loops[key] = entry

	m.wg.Add(1)
	go m.run(loopCtx, entry)

	logger.Debug("repeat: started %s (run %s, period %s)", key, entry.task.RunID, period)
	return fmt.Sprintf(`Started repeat for "%s" every %d ms.`, key, period.Milliseconds()), nil
}

// Stop requests cancellation of the loop for key without waiting for it.
func (m *LoopManager) Stop(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.loops[key]
	if !ok || !entry.active() {
		return fmt.Sprintf(`No active repeat for "%s".`, key)
	}
	entry.cancel()
	entry.task.State = domain.LoopStateStopping
	return fmt.Sprintf(`Stopped repeat for "%s".`, key)
}

// List returns the keys of active loops, sorted.
func (m *LoopManager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.loops))
	for key, entry := range m.loops {
		if entry.active() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Status returns a snapshot of every active loop, sorted by key.
func (m *LoopManager) Status() []domain.LoopTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]domain.LoopTask, 0, len(m.loops))
	for _, entry := range m.loops {
		if entry.active() {
			tasks = append(tasks, entry.task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })
	return tasks
}

// StopAll cancels every active loop.
func (m *LoopManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.loops {
		if entry.active() {
			entry.cancel()
			entry.task.State = domain.LoopStateStopping
			logger.Debug("repeat: cancelling %s", key)
		}
	}
}

// Wait blocks until every loop goroutine has exited or ctx is done.
func (m *LoopManager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the loop body: push, sleep, repeat until cancelled or failed.
func (m *LoopManager) run(ctx context.Context, entry *loopEntry) {
	defer m.wg.Done()

	var loopErr error
	defer func() {
		if r := recover(); r != nil {
			loopErr = fmt.Errorf("panic: %v", r)
			m.console.Error(fmt.Sprintf("Error in repeat(%s): %v", entry.task.Key, loopErr))
		}
		m.finish(entry, loopErr)
	}()

	key := entry.task.Key
	if !m.controller.IsButton(key) {
		loopErr = fmt.Errorf("%w: %s", domain.ErrUnknownButton, key)
		m.console.Error(fmt.Sprintf(`Button "%s" is not valid. Available: %s`,
			key, strings.Join(m.controller.Buttons(), ", ")))
		return
	}

	for {
		if err := m.controller.Push(ctx, key); err != nil {
			switch {
			case ctx.Err() != nil:
				// Cancelled while waiting to push.
			case errors.Is(err, domain.ErrNotConnected):
				loopErr = err
				m.console.Error("Connection lost during repeat; stopping loop.")
			default:
				loopErr = err
				m.console.Error(fmt.Sprintf("Error in repeat(%s): %v", key, err))
			}
			return
		}

		m.mu.Lock()
		entry.task.Presses++
		m.mu.Unlock()

		timer := time.NewTimer(entry.task.Period)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// finish marks entry finished and removes it from the registry unless a
// newer loop for the same key already replaced it.
func (m *LoopManager) finish(entry *loopEntry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.cancel()
	entry.task.State = domain.LoopStateFinished
	if err != nil {
		entry.task.LastError = err.Error()
	}
	if current, ok := m.loops[entry.task.Key]; ok && current == entry {
		delete(m.loops, entry.task.Key)
	}
	close(entry.done)

	logger.Debug("repeat: %s finished after %d presses", entry.task.Key, entry.task.Presses)
}

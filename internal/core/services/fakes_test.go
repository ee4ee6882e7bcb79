package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// --- Fakes shared by the services tests ---

// eventLog records the order of observable side effects across fakes.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// fakeController implements driven.Controller for testing.
type fakeController struct {
	mu       sync.Mutex
	buttons  map[string]bool
	pushes   [][]string
	flushes  int
	held     map[string]bool
	pushErr  error
	flushErr error
	sticks   map[domain.StickSide]*fakeStick
	log      *eventLog
}

func newFakeController(buttons ...string) *fakeController {
	if len(buttons) == 0 {
		buttons = []string{"a", "b", "x", "y", "l", "r", "home"}
	}
	set := make(map[string]bool, len(buttons))
	for _, b := range buttons {
		set[b] = true
	}
	return &fakeController{
		buttons: set,
		held:    make(map[string]bool),
		sticks: map[domain.StickSide]*fakeStick{
			domain.StickLeft:  {pos: domain.CenteredStick()},
			domain.StickRight: {pos: domain.CenteredStick()},
		},
	}
}

func (f *fakeController) Kind() domain.ControllerKind { return domain.ControllerPro }

func (f *fakeController) IsButton(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buttons[name]
}

func (f *fakeController) Buttons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.buttons))
	for b := range f.buttons {
		names = append(names, b)
	}
	sort.Strings(names)
	return names
}

func (f *fakeController) Push(ctx context.Context, buttons ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, append([]string(nil), buttons...))
	f.log.add("push:" + strings.Join(buttons, ","))
	return nil
}

func (f *fakeController) Hold(_ context.Context, buttons ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range buttons {
		f.held[b] = true
	}
	return nil
}

func (f *fakeController) Release(_ context.Context, buttons ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range buttons {
		delete(f.held, b)
	}
	return nil
}

func (f *fakeController) Flush(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flushErr != nil {
		return f.flushErr
	}
	f.flushes++
	f.log.add("flush")
	return nil
}

func (f *fakeController) Stick(side domain.StickSide) (driven.Stick, error) {
	stick, ok := f.sticks[side]
	if !ok {
		return nil, domain.ErrNoStick
	}
	return stick, nil
}

func (f *fakeController) Snapshot() domain.ControllerSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	pressed := make([]string, 0, len(f.held))
	for b := range f.held {
		pressed = append(pressed, b)
	}
	sort.Strings(pressed)
	return domain.ControllerSnapshot{
		Pressed: pressed,
		Left:    f.sticks[domain.StickLeft].Position(),
		Right:   f.sticks[domain.StickRight].Position(),
	}
}

func (f *fakeController) setPushErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushErr = err
}

func (f *fakeController) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeController) allPushes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.pushes...)
}

func (f *fakeController) flushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// fakeStick implements driven.Stick for testing.
type fakeStick struct {
	pos domain.StickPosition
}

func (s *fakeStick) SetCenter() { s.pos = domain.CenteredStick() }
func (s *fakeStick) SetUp()     { s.pos = domain.StickPosition{H: domain.StickCenter, V: domain.StickMax} }
func (s *fakeStick) SetDown()   { s.pos = domain.StickPosition{H: domain.StickCenter, V: domain.StickMin} }
func (s *fakeStick) SetLeft()   { s.pos = domain.StickPosition{H: domain.StickMin, V: domain.StickCenter} }
func (s *fakeStick) SetRight()  { s.pos = domain.StickPosition{H: domain.StickMax, V: domain.StickCenter} }

func (s *fakeStick) SetH(v int) error {
	if err := domain.ValidateStickValue(v); err != nil {
		return err
	}
	s.pos.H = v
	return nil
}

func (s *fakeStick) SetV(v int) error {
	if err := domain.ValidateStickValue(v); err != nil {
		return err
	}
	s.pos.V = v
	return nil
}

func (s *fakeStick) Position() domain.StickPosition { return s.pos }

// recordingConsole implements driven.Console for testing.
type recordingConsole struct {
	mu      sync.Mutex
	prints  []string
	notices []string
	errors  []string
	log     *eventLog
}

func (c *recordingConsole) Print(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prints = append(c.prints, msg)
	c.log.add("print:" + msg)
}

func (c *recordingConsole) Notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, msg)
}

func (c *recordingConsole) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
	c.log.add("error:" + msg)
}

func (c *recordingConsole) allPrints() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prints...)
}

func (c *recordingConsole) allErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

func (c *recordingConsole) allNotices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.notices...)
}

// scriptedReader implements driven.LineReader over fixed lines.
type scriptedReader struct {
	lines []string
	err   error
}

func (r *scriptedReader) ReadLine() (string, error) {
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// Ensure fakes implement interfaces
var _ driven.Controller = (*fakeController)(nil)
var _ driven.Console = (*recordingConsole)(nil)
var _ driven.LineReader = (*scriptedReader)(nil)

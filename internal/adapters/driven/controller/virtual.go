package controller

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/logger"
)

// Ensure Virtual implements the interface.
var _ driven.Controller = (*Virtual)(nil)

// Virtual is an in-memory emulated controller.
type Virtual struct {
	kind    domain.ControllerKind
	buttons map[string]bool

	// sendMu serialises press cycles and sends.
	sendMu sync.Mutex

	mu            sync.Mutex
	transport     driven.Transport
	pressed       map[string]bool
	sticks        map[domain.StickSide]*stick
	pressDuration time.Duration
}

// New creates a virtual controller of the given kind sending to transport.
// A nil transport leaves the controller disconnected.
func New(kind domain.ControllerKind, transport driven.Transport, pressDuration time.Duration) (*Virtual, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown controller kind %q", domain.ErrInvalidInput, kind)
	}
	if pressDuration < 0 {
		return nil, fmt.Errorf("%w: press duration must not be negative", domain.ErrInvalidInput)
	}

	v := &Virtual{
		kind:          kind,
		buttons:       make(map[string]bool),
		transport:     transport,
		pressed:       make(map[string]bool),
		sticks:        make(map[domain.StickSide]*stick),
		pressDuration: pressDuration,
	}
	for _, b := range kind.Buttons() {
		v.buttons[b] = true
	}
	for _, side := range []domain.StickSide{domain.StickLeft, domain.StickRight} {
		if kind.HasStick(side) {
			v.sticks[side] = &stick{owner: v, pos: domain.CenteredStick()}
		}
	}
	return v, nil
}

// Kind returns the emulated controller kind.
func (v *Virtual) Kind() domain.ControllerKind {
	return v.kind
}

// IsButton reports whether name is a button of this controller.
func (v *Virtual) IsButton(name string) bool {
	return v.buttons[name]
}

// Buttons returns every button name, sorted.
func (v *Virtual) Buttons() []string {
	return v.kind.Buttons()
}

// SetTransport attaches a transport. Nil detaches it.
func (v *Virtual) SetTransport(t driven.Transport) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transport = t
}

// SetPressDuration changes how long pushed buttons stay pressed.
func (v *Virtual) SetPressDuration(d time.Duration) {
	if d < 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pressDuration = d
}

// PressDuration returns how long pushed buttons stay pressed.
func (v *Virtual) PressDuration() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pressDuration
}

// Push presses buttons together for the press duration.
// Only the start of a push observes ctx; a started cycle always releases
// the buttons it pressed. Buttons already held stay held.
func (v *Virtual) Push(ctx context.Context, buttons ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.checkButtons(buttons); err != nil {
		return err
	}

	v.sendMu.Lock()
	defer v.sendMu.Unlock()

	cycleCtx := context.WithoutCancel(ctx)
	pressed := v.unpressed(buttons)
	v.setPressed(pressed, true)
	if err := v.send(cycleCtx); err != nil {
		v.setPressed(pressed, false)
		return err
	}

	time.Sleep(v.PressDuration())

	v.setPressed(pressed, false)
	return v.send(cycleCtx)
}

// Hold presses buttons and sends the state without releasing them.
func (v *Virtual) Hold(ctx context.Context, buttons ...string) error {
	if err := v.checkButtons(buttons); err != nil {
		return err
	}
	v.sendMu.Lock()
	defer v.sendMu.Unlock()

	v.setPressed(buttons, true)
	return v.send(ctx)
}

// Release releases buttons and sends the state.
func (v *Virtual) Release(ctx context.Context, buttons ...string) error {
	if err := v.checkButtons(buttons); err != nil {
		return err
	}
	v.sendMu.Lock()
	defer v.sendMu.Unlock()

	v.setPressed(buttons, false)
	return v.send(ctx)
}

// Flush sends the current state unchanged.
func (v *Virtual) Flush(ctx context.Context) error {
	v.sendMu.Lock()
	defer v.sendMu.Unlock()
	return v.send(ctx)
}

// Stick returns the stick on the given side.
func (v *Virtual) Stick(side domain.StickSide) (driven.Stick, error) {
	s, ok := v.sticks[side]
	if !ok {
		return nil, fmt.Errorf("%w: %s stick on %s", domain.ErrNoStick, side, v.kind)
	}
	return s, nil
}

// Snapshot returns the current input state.
func (v *Virtual) Snapshot() domain.ControllerSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *Virtual) snapshotLocked() domain.ControllerSnapshot {
	pressed := make([]string, 0, len(v.pressed))
	for b := range v.pressed {
		pressed = append(pressed, b)
	}
	sort.Strings(pressed)

	snap := domain.ControllerSnapshot{
		Pressed: pressed,
		Left:    domain.CenteredStick(),
		Right:   domain.CenteredStick(),
	}
	if s, ok := v.sticks[domain.StickLeft]; ok {
		snap.Left = s.pos
	}
	if s, ok := v.sticks[domain.StickRight]; ok {
		snap.Right = s.pos
	}
	return snap
}

func (v *Virtual) checkButtons(buttons []string) error {
	for _, b := range buttons {
		if !v.buttons[b] {
			return fmt.Errorf(`%w: "%s"`, domain.ErrUnknownButton, b)
		}
	}
	return nil
}

// unpressed returns the buttons that are not currently pressed.
func (v *Virtual) unpressed(buttons []string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	result := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if !v.pressed[b] {
			result = append(result, b)
		}
	}
	return result
}

func (v *Virtual) setPressed(buttons []string, pressed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, b := range buttons {
		if pressed {
			v.pressed[b] = true
		} else {
			delete(v.pressed, b)
		}
	}
}

// send delivers the current state. Caller must hold sendMu.
func (v *Virtual) send(ctx context.Context) error {
	v.mu.Lock()
	transport := v.transport
	snap := v.snapshotLocked()
	v.mu.Unlock()

	if transport == nil {
		return domain.ErrNotConnected
	}
	if err := transport.Send(ctx, snap); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	logger.Debug("controller: sent %s", snap)
	return nil
}

// stick is one analog stick of a Virtual controller, guarded by its owner's lock.
type stick struct {
	owner *Virtual
	pos   domain.StickPosition
}

func (s *stick) set(pos domain.StickPosition) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.pos = pos
}

func (s *stick) SetCenter() {
	s.set(domain.CenteredStick())
}

func (s *stick) SetUp() {
	s.set(domain.StickPosition{H: domain.StickCenter, V: domain.StickMax})
}

func (s *stick) SetDown() {
	s.set(domain.StickPosition{H: domain.StickCenter, V: domain.StickMin})
}

func (s *stick) SetLeft() {
	s.set(domain.StickPosition{H: domain.StickMin, V: domain.StickCenter})
}

func (s *stick) SetRight() {
	s.set(domain.StickPosition{H: domain.StickMax, V: domain.StickCenter})
}

func (s *stick) SetH(h int) error {
	if err := domain.ValidateStickValue(h); err != nil {
		return err
	}
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.pos.H = h
	return nil
}

func (s *stick) SetV(val int) error {
	if err := domain.ValidateStickValue(val); err != nil {
		return err
	}
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.pos.V = val
	return nil
}

func (s *stick) Position() domain.StickPosition {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.pos
}

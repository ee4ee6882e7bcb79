package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ControllerKind identifies the emulated controller.
type ControllerKind string

// Supported controller kinds.
const (
	// ControllerPro is a full controller with both sticks.
	ControllerPro ControllerKind = "pro"

	// ControllerJoyConL is the left Joy-Con with the left stick only.
	ControllerJoyConL ControllerKind = "joycon_l"

	// ControllerJoyConR is the right Joy-Con with the right stick only.
	ControllerJoyConR ControllerKind = "joycon_r"
)

var controllerButtons = map[ControllerKind][]string{
	ControllerPro: {
		"y", "x", "b", "a", "r", "zr", "minus", "plus", "r_stick", "l_stick",
		"home", "capture", "down", "up", "right", "left", "l", "zl",
	},
	ControllerJoyConL: {
		"minus", "l_stick", "capture", "down", "up", "right", "left", "sr", "sl", "l", "zl",
	},
	ControllerJoyConR: {
		"y", "x", "b", "a", "sr", "sl", "r", "zr", "plus", "r_stick", "home",
	},
}

// ParseControllerKind parses a configuration value into a ControllerKind.
func ParseControllerKind(s string) (ControllerKind, error) {
	kind := ControllerKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown controller kind %q", ErrInvalidInput, s)
	}
	return kind, nil
}

// IsValid returns true if the controller kind is recognised.
func (k ControllerKind) IsValid() bool {
	_, ok := controllerButtons[k]
	return ok
}

// Buttons returns the button names of the controller kind, sorted.
func (k ControllerKind) Buttons() []string {
	buttons := append([]string(nil), controllerButtons[k]...)
	sort.Strings(buttons)
	return buttons
}

// HasStick reports whether the controller kind has a stick on the given side.
func (k ControllerKind) HasStick(side StickSide) bool {
	switch k {
	case ControllerPro:
		return true
	case ControllerJoyConL:
		return side == StickLeft
	case ControllerJoyConR:
		return side == StickRight
	default:
		return false
	}
}

// String returns the string representation.
func (k ControllerKind) String() string {
	return string(k)
}

// StickSide selects one of the analog sticks.
type StickSide string

// Stick sides.
const (
	StickLeft  StickSide = "left"
	StickRight StickSide = "right"
)

// ParseStickSide accepts "l", "left", "r" and "right".
func ParseStickSide(s string) (StickSide, error) {
	switch s {
	case "l", "left":
		return StickLeft, nil
	case "r", "right":
		return StickRight, nil
	default:
		return "", fmt.Errorf(`%w: value of side must be "l", "left" or "r", "right"`, ErrInvalidArgument)
	}
}

// Stick axis limits. Values are 12-bit.
const (
	StickMin    = 0
	StickMax    = 0xfff
	StickCenter = 0x800
)

// StickPosition is the horizontal and vertical value of one stick.
type StickPosition struct {
	H int
	V int
}

// CenteredStick returns a stick at rest.
func CenteredStick() StickPosition {
	return StickPosition{H: StickCenter, V: StickCenter}
}

// ValidateStickValue checks an axis value is within the 12-bit range.
func ValidateStickValue(v int) error {
	if v < StickMin || v > StickMax {
		return fmt.Errorf("%w: stick value %d out of range [%d, %d]", ErrInvalidArgument, v, StickMin, StickMax)
	}
	return nil
}

// ControllerSnapshot is the input state sent to a transport in one report.
type ControllerSnapshot struct {
	// Pressed lists the pressed buttons, sorted.
	Pressed []string

	// Left is the left stick position.
	Left StickPosition

	// Right is the right stick position.
	Right StickPosition
}

// String renders the snapshot as one line.
func (s ControllerSnapshot) String() string {
	return fmt.Sprintf("buttons=[%s] l=(%d,%d) r=(%d,%d)",
		strings.Join(s.Pressed, " "), s.Left.H, s.Left.V, s.Right.H, s.Right.V)
}

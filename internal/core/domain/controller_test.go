package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseControllerKind(t *testing.T) {
	kind, err := ParseControllerKind(" Pro ")
	require.NoError(t, err)
	assert.Equal(t, ControllerPro, kind)

	_, err = ParseControllerKind("gamecube")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestControllerKind_Buttons(t *testing.T) {
	buttons := ControllerJoyConR.Buttons()

	assert.Contains(t, buttons, "a")
	assert.Contains(t, buttons, "home")
	assert.NotContains(t, buttons, "minus")
	assert.IsIncreasing(t, buttons)

	// Returned slice must not alias the table.
	buttons[0] = "mutated"
	assert.NotContains(t, ControllerJoyConR.Buttons(), "mutated")
}

func TestControllerKind_HasStick(t *testing.T) {
	assert.True(t, ControllerPro.HasStick(StickLeft))
	assert.True(t, ControllerPro.HasStick(StickRight))
	assert.True(t, ControllerJoyConL.HasStick(StickLeft))
	assert.False(t, ControllerJoyConL.HasStick(StickRight))
	assert.False(t, ControllerJoyConR.HasStick(StickLeft))
	assert.False(t, ControllerKind("other").HasStick(StickLeft))
}

func TestParseStickSide(t *testing.T) {
	for _, in := range []string{"l", "left"} {
		side, err := ParseStickSide(in)
		require.NoError(t, err)
		assert.Equal(t, StickLeft, side)
	}
	for _, in := range []string{"r", "right"} {
		side, err := ParseStickSide(in)
		require.NoError(t, err)
		assert.Equal(t, StickRight, side)
	}

	_, err := ParseStickSide("up")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateStickValue(t *testing.T) {
	assert.NoError(t, ValidateStickValue(StickMin))
	assert.NoError(t, ValidateStickValue(StickMax))
	assert.ErrorIs(t, ValidateStickValue(-1), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateStickValue(StickMax+1), ErrInvalidArgument)
}

func TestControllerSnapshot_String(t *testing.T) {
	snap := ControllerSnapshot{
		Pressed: []string{"a", "b"},
		Left:    CenteredStick(),
		Right:   StickPosition{H: 0, V: 4095},
	}

	assert.Equal(t, "buttons=[a b] l=(2048,2048) r=(0,4095)", snap.String())
}

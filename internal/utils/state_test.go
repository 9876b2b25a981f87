package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUSState(t *testing.T) {
	cases := map[string]string{
		"GA":            StateGA,
		"georgia":       StateGA,
		"  Georgia  ":   StateGA,
		"new york":      StateNY,
		"D.C.":          StateDC,
		"calif":         StateCA,
		"PUERTO RICO":   StatePR,
		"west virginia": StateWV,
	}
	for input, want := range cases {
		got, err := NormalizeUSState(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalizeUSStateInvalid(t *testing.T) {
	for _, input := range []string{"", "ZZ", "Ontario", "42"} {
		_, err := NormalizeUSState(input)
		assert.ErrorIs(t, err, ErrInvalidState, "input %q", input)
	}
}

func TestIsContinentalUSState(t *testing.T) {
	assert.True(t, IsContinentalUSState(StateGA))
	assert.True(t, IsContinentalUSState(StateDC))
	assert.False(t, IsContinentalUSState(StateAK))
	assert.False(t, IsContinentalUSState(StateHI))
	assert.False(t, IsContinentalUSState(StatePR))
	assert.False(t, IsContinentalUSState("ZZ"))
}

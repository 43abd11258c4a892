package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultOptions(t *testing.T) {
	pw, err := New(DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, pw, 20)

	assert.True(t, strings.ContainsAny(pw, lowerChars))
	assert.True(t, strings.ContainsAny(pw, upperChars))
	assert.True(t, strings.ContainsAny(pw, digitChars))
	assert.True(t, strings.ContainsAny(pw, symbolChars))
}

func TestNew_SingleClass(t *testing.T) {
	pw, err := New(Options{Length: 8, Digits: true})
	require.NoError(t, err)
	require.Len(t, pw, 8)
	for _, r := range pw {
		assert.Contains(t, digitChars, string(r))
	}
}

func TestNew_EveryEnabledClassPresent(t *testing.T) {
	// with length == class count each class appears exactly once
	for i := 0; i < 50; i++ {
		pw, err := New(Options{Length: 4, Lower: true, Upper: true, Digits: true, Symbols: true})
		require.NoError(t, err)
		assert.True(t, strings.ContainsAny(pw, lowerChars))
		assert.True(t, strings.ContainsAny(pw, upperChars))
		assert.True(t, strings.ContainsAny(pw, digitChars))
		assert.True(t, strings.ContainsAny(pw, symbolChars))
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Length: 10})
	require.Error(t, err, "no classes enabled")

	_, err = New(Options{Length: 2, Lower: true, Upper: true, Digits: true})
	require.Error(t, err, "length too short for enabled classes")

	_, err = New(Options{Length: 0, Lower: true})
	require.Error(t, err)
}

func TestNew_Distinct(t *testing.T) {
	a, err := New(DefaultOptions())
	require.NoError(t, err)
	b, err := New(DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesSixDigitCode(t *testing.T) {
	s := NewStore(5 * time.Minute)

	code, err := s.Generate("9876543210")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^[1-9]\d{5}$`, code)
}

func TestVerifyConsumesCode(t *testing.T) {
	s := NewStore(5 * time.Minute)

	code, err := s.Generate("user@example.com")
	require.NoError(t, err)

	assert.True(t, s.Verify("user@example.com", code))
	// The same code must not verify twice.
	assert.False(t, s.Verify("user@example.com", code))
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	s := NewStore(5 * time.Minute)

	code, err := s.Generate("user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.False(t, s.Verify("user@example.com", wrong))
	// A failed attempt does not consume the code.
	assert.True(t, s.Verify("user@example.com", code))
}

func TestVerifyUnknownIdentifier(t *testing.T) {
	s := NewStore(5 * time.Minute)
	assert.False(t, s.Verify("nobody@example.com", "123456"))
}

func TestVerifyExpiredCode(t *testing.T) {
	s := NewStore(5 * time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	code, err := s.Generate("9876543210")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(6 * time.Minute) }
	assert.False(t, s.Verify("9876543210", code))

	// The expired record is gone; a fresh code works normally.
	s.now = func() time.Time { return base.Add(7 * time.Minute) }
	fresh, err := s.Generate("9876543210")
	require.NoError(t, err)
	assert.True(t, s.Verify("9876543210", fresh))
}

func TestGenerateReplacesPreviousCode(t *testing.T) {
	s := NewStore(5 * time.Minute)

	first, err := s.Generate("9876543210")
	require.NoError(t, err)
	second, err := s.Generate("9876543210")
	require.NoError(t, err)

	if first != second {
		assert.False(t, s.Verify("9876543210", first))
	}
	assert.True(t, s.Verify("9876543210", second))
}

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Off(t *testing.T) {
	v := NewVerifier("", "")
	p, err := v.FromHeader("")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestVerifier_HMAC(t *testing.T) {
	secret := []byte("s3cret")
	v := NewVerifier("HMAC", string(secret))
	v.now = func() time.Time { return time.Unix(1_000, 0) }

	tok, err := Sign(secret, map[string]any{"sub": "ops", "role": "Admin", "exp": 2_000})
	require.NoError(t, err)
	p, err := v.FromHeader("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "ops", p.Subject)
	assert.True(t, p.IsAdmin())

	_, err = v.FromHeader("")
	assert.ErrorIs(t, err, ErrMissingToken)

	other, _ := Sign([]byte("other"), map[string]any{"role": "admin"})
	_, err = v.FromHeader("Bearer " + other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := Sign(secret, map[string]any{"role": "admin", "exp": 999})
	_, err = v.FromHeader("Bearer " + expired)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = v.Verify(strings.Repeat("x", 10))
	assert.ErrorIs(t, err, ErrInvalidToken)

	worker, _ := Sign(secret, map[string]any{"role": "worker"})
	p, err = v.FromHeader("Bearer " + worker)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin())
}

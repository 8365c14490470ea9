package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.FixedZone("CDT", -5*3600))
	c := encodeCursor(at, "abc")
	gotAt, gotID, err := decodeCursor(c)
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, "abc", gotID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, c := range []string{"%%%", "bm9waXBl", encodeCursor(time.Now(), "")} {
		_, _, err := decodeCursor(c)
		assert.ErrorIs(t, err, ErrBadCursor, c)
	}
}

func TestRunBefore(t *testing.T) {
	t0 := time.Unix(100, 0)
	assert.True(t, runBefore(t0.Add(time.Second), "a", t0, "z"))
	assert.True(t, runBefore(t0, "b", t0, "a"))
	assert.False(t, runBefore(t0, "a", t0, "a"))
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, pageSize(0))
	assert.Equal(t, defaultPageSize, pageSize(maxPageSize+1))
	assert.Equal(t, 20, pageSize(20))
}

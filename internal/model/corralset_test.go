package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorralSet_PreservesKeyOrder(t *testing.T) {
	var req OptimizeRouteRequest
	body := `{"corrals":{"Z":{"x":0,"y":0},"B":{"x":3,"y":0,"count":4},"M":{"x":3,"y":4}},"depot":"B"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, []string{"Z", "B", "M"}, req.Corrals.IDs)
	assert.Equal(t, "B", req.Depot)
	require.NotNil(t, req.Corrals.ByID["B"].Count)
	assert.Equal(t, 4, *req.Corrals.ByID["B"].Count)
	assert.Nil(t, req.Corrals.ByID["Z"].Count)
}

func TestCorralSet_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var s CorralSet
	require.NoError(t, json.Unmarshal([]byte(`{"A":{"x":1,"y":1},"B":{"x":2,"y":2},"A":{"x":9,"y":9}}`), &s))
	assert.Equal(t, []string{"A", "B"}, s.IDs)
	require.NotNil(t, s.ByID["A"].X)
	assert.Equal(t, 9.0, *s.ByID["A"].X)
}

func TestCorralSet_MissingCoordinateStaysNil(t *testing.T) {
	var s CorralSet
	require.NoError(t, json.Unmarshal([]byte(`{"A":{"x":3,"y":4},"B":{"count":5}}`), &s))
	assert.NotNil(t, s.ByID["A"].X)
	assert.Nil(t, s.ByID["B"].X)
	assert.Nil(t, s.ByID["B"].Y)
}

func TestCorralSet_RejectsNonObject(t *testing.T) {
	var s CorralSet
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"A":"nope"}`), &s))
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Zero(t, s.Len())
}

func TestCorralSet_MarshalKeepsOrder(t *testing.T) {
	var s CorralSet
	one, two := 1.0, 2.0
	s.Add("C", CorralIn{X: &one, Y: &two})
	s.Add("A", CorralIn{X: &two})
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"C":{"x":1,"y":2},"A":{"x":2,"y":null}}`, string(b))
}

func TestNewSnapshot_MondayBasedWeekday(t *testing.T) {
	// 2024-01-01 was a Monday.
	s := NewSnapshot("A", 5, time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC))
	assert.Equal(t, 0, s.DayOfWeek)
	assert.Equal(t, 14, s.Hour)
	s = NewSnapshot("A", 5, time.Date(2024, 1, 7, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 6, s.DayOfWeek)
}

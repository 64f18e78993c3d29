package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestDayBoundaries(t *testing.T) {
	ts := time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), EndOfDayExclusive(ts))
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *got)

	_, err = ParseOptionalDate("2023-02-29", time.UTC)
	assert.Error(t, err)
}

package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenderValue(t *testing.T) {
	assert.Equal(t, "male", genderValue("males"))
	assert.Equal(t, "female", genderValue("females"))
	assert.Equal(t, "", genderValue("femalesAndMales"))
	assert.Equal(t, "", genderValue(""))
	assert.Equal(t, "", genderValue("whatever"))
}

func TestParseAgeRange(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	after, before, err := parseAgeRange("20-30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1996, 6, 1, 0, 0, 0, 0, time.UTC), after)
	assert.Equal(t, time.Date(2006, 6, 1, 0, 0, 0, 0, time.UTC), before)

	for _, bad := range []string{"20", "abc-30", "20-def", "-", "a-b"} {
		_, _, err := parseAgeRange(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseCoordinate(t *testing.T) {
	lat, lng, err := parseCoordinate("21.0122,52.2297")
	require.NoError(t, err)
	assert.InDelta(t, 52.2297, lat, 1e-9)
	assert.InDelta(t, 21.0122, lng, 1e-9)

	for _, bad := range []string{"21.0", "a,b", "21.0;52.2", ""} {
		_, _, err := parseCoordinate(bad)
		assert.Error(t, err, bad)
	}
}

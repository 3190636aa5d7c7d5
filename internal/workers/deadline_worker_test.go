package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWallClock(t *testing.T) {
	hour, minute, err := parseWallClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	hour, minute, err = parseWallClock("00:00")
	assert.NoError(t, err)
	assert.Zero(t, hour)
	assert.Zero(t, minute)

	hour, minute, err = parseWallClock("23:59")
	assert.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)
}

func TestParseWallClock_Invalid(t *testing.T) {
	cases := []string{"", "9", "24:00", "12:60", "aa:bb", "12:", ":30"}
	for _, input := range cases {
		_, _, err := parseWallClock(input)
		assert.Error(t, err, "input %q", input)
	}
}

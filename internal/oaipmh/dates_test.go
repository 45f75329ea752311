package oaipmh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	t.Run("day granularity", func(t *testing.T) {
		got, gran, err := ParseDate("2015-05-01")

		assert.NoError(t, err)
		assert.Equal(t, GranularityDay, gran)
		assert.Equal(t, time.Date(2015, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("second granularity", func(t *testing.T) {
		got, gran, err := ParseDate("2015-05-01T16:45:30Z")

		assert.NoError(t, err)
		assert.Equal(t, GranularitySecond, gran)
		assert.Equal(t, time.Date(2015, 5, 1, 16, 45, 30, 0, time.UTC), got)
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, in := range []string{
			"2015",
			"2015-05",
			"2015-05-01T16:45:30",
			"2015-05-01 16:45:30Z",
			"01-05-2015",
			"not a date",
			"",
		} {
			_, _, err := ParseDate(in)
			assert.Error(t, err, "input %q", in)
		}
	})

	t.Run("rejects impossible dates", func(t *testing.T) {
		_, _, err := ParseDate("2015-02-30")
		assert.Error(t, err)
	})
}

func TestFormatUTC(t *testing.T) {
	in := time.Date(2015, 5, 1, 16, 45, 30, 0, time.UTC)
	assert.Equal(t, "2015-05-01T16:45:30Z", FormatUTC(in))
}

func TestUntilBound(t *testing.T) {
	t.Run("day becomes next midnight", func(t *testing.T) {
		in := time.Date(2015, 5, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2015, 5, 2, 0, 0, 0, 0, time.UTC), UntilBound(in, GranularityDay))
	})

	t.Run("second becomes next second", func(t *testing.T) {
		in := time.Date(2015, 5, 1, 16, 45, 30, 0, time.UTC)
		assert.Equal(t, time.Date(2015, 5, 1, 16, 45, 31, 0, time.UTC), UntilBound(in, GranularitySecond))
	})
}

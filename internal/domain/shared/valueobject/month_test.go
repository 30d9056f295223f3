package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	t.Run("parses canonical form", func(t *testing.T) {
		m, err := ParseMonth("2026-03")
		require.NoError(t, err)
		assert.Equal(t, 2026, m.Year())
		assert.Equal(t, time.March, m.Month())
		assert.Equal(t, "2026-03", m.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, input := range []string{"", "2026", "2026-13", "03-2026", "2026-3"} {
			_, err := ParseMonth(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestMonth_Contains(t *testing.T) {
	m, err := ParseMonth("2026-02")
	require.NoError(t, err)

	assert.True(t, m.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Contains(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
}

func TestMonth_Range(t *testing.T) {
	m, err := ParseMonth("2026-12")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), m.End())
}

func TestMonth_JSONRoundTrip(t *testing.T) {
	m, err := ParseMonth("2026-07")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"2026-07"`, string(data))

	var decoded Month
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestMonth_Scan(t *testing.T) {
	var m Month
	require.NoError(t, m.Scan("2026-01"))
	assert.Equal(t, "2026-01", m.String())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}

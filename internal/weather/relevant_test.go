package weather

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForecast(t *testing.T) *Forecast {
	t.Helper()
	var f Forecast
	require.NoError(t, json.Unmarshal([]byte(forecastBody), &f))
	return &f
}

func TestRelevantConditionsWindow(t *testing.T) {
	window, err := RelevantConditions(testForecast(t))
	require.NoError(t, err)

	assert.Equal(t, "Rockford, Michigan", window.Location)

	// 18:00 and 09:00 fall outside the evening-through-morning window.
	var times []string
	for _, h := range window.Hours {
		times = append(times, h.Time)
	}
	assert.Equal(t, []string{
		"2026-01-15 19:00",
		"2026-01-15 23:00",
		"2026-01-16 00:00",
		"2026-01-16 07:00",
	}, times)

	require.NotNil(t, window.Alert)
	assert.Equal(t, "Winter Storm Warning", window.Alert.Event)
}

func TestRelevantConditionsNeedsTwoDays(t *testing.T) {
	f := testForecast(t)
	f.Forecast.ForecastDay = f.Forecast.ForecastDay[:1]

	_, err := RelevantConditions(f)
	require.Error(t, err)
}

func TestRelevantConditionsNoAlert(t *testing.T) {
	f := testForecast(t)
	f.Alerts.Alert = nil

	window, err := RelevantConditions(f)
	require.NoError(t, err)
	assert.Nil(t, window.Alert)
}

func TestRenderIncludesAlert(t *testing.T) {
	window, err := RelevantConditions(testForecast(t))
	require.NoError(t, err)

	text := window.Render()
	assert.Contains(t, text, "Location: Rockford, Michigan")
	assert.Contains(t, text, "ACTIVE ALERT: Winter Storm Warning")
	assert.Contains(t, text, "severity Moderate")
}

func TestInitialPrompt(t *testing.T) {
	window, err := RelevantConditions(testForecast(t))
	require.NoError(t, err)

	prompt := InitialPrompt(window)
	assert.True(t, strings.HasPrefix(prompt, "Please provide a detailed weather report"))
	assert.Contains(t, prompt, "2026-01-15 19:00")
	assert.Contains(t, prompt, "DO NOT make any predictions")
	assert.NotContains(t, prompt, "?", "the seed prompt must not read as an open question")
}

func TestHourOfDay(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2026-01-15 19:00", 19, true},
		{"2026-01-16 00:00", 0, true},
		{"2026-01-16 23:59", 23, true},
		{"19:00", 0, false},
		{"garbage", 0, false},
		{"2026-01-16 25:00", 0, false},
	}
	for _, tt := range tests {
		got, ok := hourOfDay(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("hourOfDay(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
	"location": {"name": "Rockford", "region": "Michigan"},
	"forecast": {"forecastday": [
		{"date": "2026-01-15", "hour": [
			{"time": "2026-01-15 18:00", "temp_f": 20, "chance_of_snow": 40},
			{"time": "2026-01-15 19:00", "temp_f": 18, "chance_of_snow": 80, "snow_cm": 2.5},
			{"time": "2026-01-15 23:00", "temp_f": 15, "chance_of_snow": 90, "snow_cm": 4.0}
		]},
		{"date": "2026-01-16", "hour": [
			{"time": "2026-01-16 00:00", "temp_f": 12, "chance_of_snow": 90},
			{"time": "2026-01-16 07:00", "temp_f": 8, "chance_of_snow": 70, "windchill_f": -12},
			{"time": "2026-01-16 09:00", "temp_f": 10, "chance_of_snow": 20}
		]}
	]},
	"alerts": {"alert": [
		{"event": "Winter Storm Warning", "severity": "Moderate", "certainty": "Likely", "urgency": "Expected", "desc": "Heavy snow expected."}
	]}
}`

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{ZipCode: "49341"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		APIKey:  "secret-key",
		BaseURL: srv.URL,
		ZipCode: "49341",
	})
	require.NoError(t, err)

	forecast, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotQuery["key"])
	assert.Equal(t, "49341", gotQuery["q"])
	assert.Equal(t, "2", gotQuery["days"])
	assert.Equal(t, "no", gotQuery["aqi"])
	assert.Equal(t, "yes", gotQuery["alerts"])

	assert.Equal(t, "Rockford", forecast.Location.Name)
	require.Len(t, forecast.Forecast.ForecastDay, 2)
	require.Len(t, forecast.Alerts.Alert, 1)
	assert.Equal(t, "Winter Storm Warning", forecast.Alerts.Alert[0].Event)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "bad", BaseURL: srv.URL, ZipCode: "49341"})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL, ZipCode: "49341"})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	require.Error(t, err)
}

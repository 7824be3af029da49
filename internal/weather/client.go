// Package weather fetches forecast data for the decision window: 7 PM
// through 8 AM the next morning, which is when closure calls get made.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the WeatherAPI endpoint.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// ErrMissingAPIKey is returned by NewClient when no key is configured.
var ErrMissingAPIKey = errors.New("weather api key is required")

// Condition is the textual weather condition.
type Condition struct {
	Text string `json:"text"`
}

// Hour is one hourly forecast entry.
type Hour struct {
	Time         string    `json:"time"` // "2006-01-02 15:04" local
	TempF        float64   `json:"temp_f"`
	FeelsLikeF   float64   `json:"feelslike_f"`
	WindChillF   float64   `json:"windchill_f"`
	ChanceOfSnow int       `json:"chance_of_snow"`
	ChanceOfRain int       `json:"chance_of_rain"`
	SnowCm       float64   `json:"snow_cm"`
	WindMph      float64   `json:"wind_mph"`
	GustMph      float64   `json:"gust_mph"`
	VisMiles     float64   `json:"vis_miles"`
	Cloud        int       `json:"cloud"`
	Humidity     int       `json:"humidity"`
	PressureIn   float64   `json:"pressure_in"`
	DewPointF    float64   `json:"dewpoint_f"`
	UV           float64   `json:"uv"`
	Condition    Condition `json:"condition"`
}

// ForecastDay is one calendar day of hourly entries.
type ForecastDay struct {
	Date string `json:"date"`
	Hour []Hour `json:"hour"`
}

// Alert is an active weather advisory.
type Alert struct {
	Event     string `json:"event"`
	Severity  string `json:"severity"`
	Certainty string `json:"certainty"`
	Urgency   string `json:"urgency"`
	Desc      string `json:"desc"`
}

// Forecast is the subset of the WeatherAPI forecast response this system
// consumes.
type Forecast struct {
	Location struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []Alert `json:"alert"`
	} `json:"alerts"`
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
	ZipCode string
	Timeout time.Duration // defaults to 30s
	Logger  *slog.Logger
}

// Client fetches forecasts from WeatherAPI.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a weather client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}, nil
}

// Fetch retrieves a two-day forecast with alerts for the configured
// location. The API key never appears in logs.
func (c *Client) Fetch(ctx context.Context) (*Forecast, error) {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("q", c.cfg.ZipCode)
	q.Set("days", "2")
	q.Set("aqi", "no")
	q.Set("alerts", "yes")
	endpoint := c.cfg.BaseURL + "/forecast.json?" + q.Encode()

	c.logger.Debug("fetching forecast", "zip", c.cfg.ZipCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building forecast request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading forecast response: %w", err)
	}

	var forecast Forecast
	if err := json.Unmarshal(data, &forecast); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}
	return &forecast, nil
}

package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// DecisionWindow is the slice of forecast data that matters for a closure
// call: evening hours of the current day and early-morning hours of the
// next, plus the first active advisory if any.
type DecisionWindow struct {
	Location string
	Hours    []Hour
	Alert    *Alert
}

// RelevantConditions extracts the 7 PM–midnight hours of day 0 and the
// midnight–8 AM hours of day 1. It fails when the forecast does not cover
// two days.
func RelevantConditions(f *Forecast) (*DecisionWindow, error) {
	if len(f.Forecast.ForecastDay) < 2 {
		return nil, fmt.Errorf("forecast covers %d day(s), need 2", len(f.Forecast.ForecastDay))
	}

	window := &DecisionWindow{
		Location: strings.TrimSpace(f.Location.Name + ", " + f.Location.Region),
	}
	window.Hours = append(window.Hours, hoursBetween(f.Forecast.ForecastDay[0].Hour, 19, 24)...)
	window.Hours = append(window.Hours, hoursBetween(f.Forecast.ForecastDay[1].Hour, 0, 8)...)

	if len(f.Alerts.Alert) > 0 {
		alert := f.Alerts.Alert[0]
		window.Alert = &alert
	}
	return window, nil
}

// hoursBetween keeps hourly entries with start <= hour-of-day < end.
func hoursBetween(hours []Hour, start, end int) []Hour {
	var out []Hour
	for _, h := range hours {
		hod, ok := hourOfDay(h.Time)
		if !ok {
			continue
		}
		if hod >= start && hod < end {
			out = append(out, h)
		}
	}
	return out
}

// hourOfDay parses the hour from a "2006-01-02 15:04" timestamp.
func hourOfDay(t string) (int, bool) {
	parts := strings.Fields(t)
	if len(parts) != 2 {
		return 0, false
	}
	hm := strings.SplitN(parts[1], ":", 2)
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// Render flattens the decision window into the text blob handed to the
// weather reporter as raw data.
func (w *DecisionWindow) Render() string {
	var b strings.Builder
	if w.Location != "" && w.Location != "," {
		fmt.Fprintf(&b, "Location: %s\n\n", w.Location)
	}

	for _, h := range w.Hours {
		fmt.Fprintf(&b, "%s | temp %.1fF (feels %.1fF, wind chill %.1fF) | snow %d%% (%.1fcm) rain %d%% | wind %.0fmph gust %.0fmph | vis %.1fmi cloud %d%% | humidity %d%% pressure %.2fin dew %.1fF | %s\n",
			h.Time, h.TempF, h.FeelsLikeF, h.WindChillF,
			h.ChanceOfSnow, h.SnowCm, h.ChanceOfRain,
			h.WindMph, h.GustMph,
			h.VisMiles, h.Cloud,
			h.Humidity, h.PressureIn, h.DewPointF,
			h.Condition.Text)
	}

	if w.Alert != nil {
		fmt.Fprintf(&b, "\nACTIVE ALERT: %s (severity %s, certainty %s, urgency %s)\n%s\n",
			w.Alert.Event, w.Alert.Severity, w.Alert.Certainty, w.Alert.Urgency, w.Alert.Desc)
	}
	return b.String()
}

// InitialPrompt builds the user message that seeds a prediction run. The
// reporter is asked to report, not predict; prediction belongs to the
// downstream roles.
func InitialPrompt(window *DecisionWindow) string {
	return fmt.Sprintf(
		"Please provide a detailed weather report for the following data.\n\n"+
			"Weather Data:\n%s\n"+
			"Focus ONLY on reporting the weather conditions. DO NOT make any predictions or analysis about snow days.",
		window.Render(),
	)
}

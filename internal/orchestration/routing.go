package orchestration

import (
	"regexp"
	"strings"

	"github.com/blizzardhq/blizzard/internal/models"
)

// Topic keyword sets for question routing. A question is routed to whichever
// upstream role scores the most keyword hits; ties resolve in default chain
// order (weather, then analysis, then validation).
var topicKeywords = []struct {
	agent    models.AgentID
	keywords []string
}{
	{models.AgentWeather, []string{
		"temperature", "snow", "snowfall", "inches", "accumulation",
		"wind", "gust", "visibility", "forecast", "precipitation",
		"ice", "freezing", "sleet", "overnight", "timing", "alert",
	}},
	{models.AgentLead, []string{
		"impact", "road", "roads", "bus", "buses", "transportation",
		"criteria", "closure", "students", "safety", "analysis",
		"district", "commute",
	}},
	{models.AgentAssistant, []string{
		"calculation", "calculated", "verify", "verified", "confirm",
		"confirmation", "breakdown", "methodology", "math", "percentage",
		"validate", "validation",
	}},
}

var wordRe = regexp.MustCompile(`[a-z]+`)

// routeQuestion classifies an open question by topic and returns the agent
// best placed to answer it. ok is false when no keyword matches at all, in
// which case the caller falls back to the default chain.
func routeQuestion(content string) (models.AgentID, bool) {
	words := wordRe.FindAllString(strings.ToLower(content), -1)
	seen := make(map[string]int, len(words))
	for _, w := range words {
		seen[w]++
	}

	best := models.AgentID("")
	bestScore := 0
	for _, topic := range topicKeywords {
		score := 0
		for _, kw := range topic.keywords {
			score += seen[kw]
		}
		// strict > keeps chain-order priority on ties
		if score > bestScore {
			best = topic.agent
			bestScore = score
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return best, true
}

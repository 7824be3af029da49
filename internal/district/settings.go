package district

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettingsPath is where district settings live, relative to the base dir.
var SettingsPath = filepath.Join("config", "district", "settings.yaml")

// SnowDays tracks the district's snow day budget.
type SnowDays struct {
	Allotted int `yaml:"allotted"`
	Used     int `yaml:"used"`
}

// Community describes the district's community context.
type Community struct {
	State               string `yaml:"state"`
	Type                string `yaml:"type"`
	WinterExperience    string `yaml:"winter_experience"`
	BusDependentPercent int    `yaml:"bus_dependent_percentage"`
}

// Current captures the day-of signals around the district.
type Current struct {
	HypeLevel      int    `yaml:"hype_level"`
	NearbyClosures string `yaml:"nearby_closures"`
	SocialBuzz     string `yaml:"social_media_buzz"`
}

// Settings is the district context injected into agent instructions.
type Settings struct {
	SnowDays  SnowDays  `yaml:"snow_days"`
	Community Community `yaml:"community"`
	Current   Current   `yaml:"current"`
	Notes     []string  `yaml:"notes"`

	loaded bool
}

// LoadSettings reads district settings relative to baseDir. A missing or
// unreadable file returns empty settings and no error — the agents then see
// an explicit "no settings" note instead of fabricated context.
func LoadSettings(baseDir string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, SettingsPath))
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return &Settings{}, fmt.Errorf("reading district settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return &Settings{}, fmt.Errorf("parsing district settings: %w", err)
	}
	s.loaded = true
	return &s, nil
}

// Format renders settings into the agent-facing context block.
func (s *Settings) Format() string {
	if s == nil || !s.loaded {
		return "No district settings available."
	}

	var b strings.Builder
	b.WriteString("DISTRICT CONTEXT AND SETTINGS:\n\n")

	b.WriteString("Snow Day Status:\n")
	fmt.Fprintf(&b, "- Allotted snow days: %d\n", s.SnowDays.Allotted)
	fmt.Fprintf(&b, "- Used snow days: %d\n\n", s.SnowDays.Used)

	b.WriteString("Community Context:\n")
	fmt.Fprintf(&b, "- State: %s\n", orNA(s.Community.State))
	fmt.Fprintf(&b, "- Community type: %s\n", orNA(s.Community.Type))
	fmt.Fprintf(&b, "- Winter experience: %s\n", orNA(s.Community.WinterExperience))
	fmt.Fprintf(&b, "- Bus dependent students: %d%%\n\n", s.Community.BusDependentPercent)

	b.WriteString("Current Conditions:\n")
	fmt.Fprintf(&b, "- Community hype level: %d/10\n", s.Current.HypeLevel)
	fmt.Fprintf(&b, "- Nearby district closures: %s\n", orNA(s.Current.NearbyClosures))
	fmt.Fprintf(&b, "- Social media activity: %s\n", orNA(s.Current.SocialBuzz))

	if len(s.Notes) > 0 {
		b.WriteString("\nImportant Community Notes:\n")
		for _, note := range s.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

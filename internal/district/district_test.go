package district

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadCriteriaPreferredLocation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "district", "closure_criteria.txt"),
		"Close when wind chill is below -20F.")
	writeFile(t, filepath.Join(dir, "misc data", "snowday_criteria.txt"),
		"legacy criteria")

	got := LoadCriteria(dir, nil)
	assert.Equal(t, "Close when wind chill is below -20F.", got)
}

func TestLoadCriteriaLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "misc data", "snowday_criteria.txt"),
		"legacy criteria")

	got := LoadCriteria(dir, nil)
	assert.Equal(t, "legacy criteria", got)
}

func TestLoadCriteriaDefault(t *testing.T) {
	got := LoadCriteria(t.TempDir(), nil)
	assert.Equal(t, DefaultCriteria, got)
}

func TestLoadCriteriaSkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "district", "closure_criteria.txt"), "   \n")
	writeFile(t, filepath.Join(dir, "misc data", "snowday_criteria.txt"), "legacy criteria")

	got := LoadCriteria(dir, nil)
	assert.Equal(t, "legacy criteria", got)
}

const settingsYAML = `snow_days:
  allotted: 6
  used: 2
community:
  state: Michigan
  type: rural
  winter_experience: high
  bus_dependent_percentage: 70
current:
  hype_level: 8
  nearby_closures: "3 districts"
  social_media_buzz: high
notes:
  - Superintendent is retiring this year
`

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsPath), settingsYAML)

	s, err := LoadSettings(dir)
	require.NoError(t, err)

	assert.Equal(t, 6, s.SnowDays.Allotted)
	assert.Equal(t, 2, s.SnowDays.Used)
	assert.Equal(t, "Michigan", s.Community.State)
	assert.Equal(t, 70, s.Community.BusDependentPercent)
	assert.Equal(t, 8, s.Current.HypeLevel)
	require.Len(t, s.Notes, 1)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err, "missing settings are not an error")
	assert.Equal(t, "No district settings available.", s.Format())
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsPath), "snow_days: [not a map")

	s, err := LoadSettings(dir)
	require.Error(t, err)
	assert.Equal(t, "No district settings available.", s.Format())
}

func TestFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsPath), settingsYAML)

	s, err := LoadSettings(dir)
	require.NoError(t, err)

	text := s.Format()
	assert.Contains(t, text, "DISTRICT CONTEXT AND SETTINGS:")
	assert.Contains(t, text, "Allotted snow days: 6")
	assert.Contains(t, text, "Bus dependent students: 70%")
	assert.Contains(t, text, "Community hype level: 8/10")
	assert.Contains(t, text, "Superintendent is retiring this year")
}

func TestFormatFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsPath), "snow_days:\n  allotted: 4\n")

	s, err := LoadSettings(dir)
	require.NoError(t, err)

	text := s.Format()
	assert.Contains(t, text, "State: N/A")
	assert.Contains(t, text, "Nearby district closures: N/A")
}

package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzard/internal/models"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		Agent{ID: models.AgentWeather, Model: "gpt-4", Instructions: "report"},
		Agent{ID: models.AgentLead, Model: "gpt-4", Instructions: "analyze"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Has(models.AgentWeather))
	assert.False(t, reg.Has(models.AgentBlizzard))

	agent, ok := reg.Get(models.AgentLead)
	require.True(t, ok)
	assert.Equal(t, "analyze", agent.Instructions)

	_, ok = reg.Get(models.AgentID("Missing"))
	assert.False(t, ok)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Agent{ID: models.AgentWeather, Model: "gpt-4", Instructions: "report"},
		Agent{ID: models.AgentWeather, Model: "gpt-4", Instructions: "report again"},
	)
	assert.ErrorIs(t, err, ErrDuplicateAgent)
}

func TestRoleModelsFallback(t *testing.T) {
	m := RoleModels{Default: "gpt-4", Blizzard: "gpt-4-turbo"}

	assert.Equal(t, "gpt-4", m.forRole(models.AgentWeather))
	assert.Equal(t, "gpt-4-turbo", m.forRole(models.AgentBlizzard))
}

func writeInstructionFiles(t *testing.T, dir string) {
	t.Helper()
	for _, name := range instructionFiles {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("base instructions for "+name), 0o644))
	}
}

func TestBuildRoster(t *testing.T) {
	dir := t.TempDir()
	writeInstructionFiles(t, dir)

	reg, err := BuildRoster(RosterConfig{
		InstructionsDir: dir,
		Models:          RoleModels{Default: "gpt-4"},
		Criteria:        "close below -20F wind chill",
		SettingsText:    "DISTRICT CONTEXT AND SETTINGS:\nrural district",
	})
	require.NoError(t, err)
	require.Equal(t, 4, reg.Len())

	// The weather reporter sees only its base instructions.
	weather, _ := reg.Get(models.AgentWeather)
	assert.NotContains(t, weather.Instructions, "DISTRICT CLOSURE CRITERIA")

	// Every analysis role gets the criteria and settings context.
	for _, id := range []models.AgentID{models.AgentLead, models.AgentAssistant, models.AgentBlizzard} {
		agent, ok := reg.Get(id)
		require.True(t, ok)
		assert.Contains(t, agent.Instructions, "DISTRICT CLOSURE CRITERIA")
		assert.Contains(t, agent.Instructions, "close below -20F wind chill")
		assert.Contains(t, agent.Instructions, "rural district")
	}
}

func TestBuildRosterMissingInstructions(t *testing.T) {
	_, err := BuildRoster(RosterConfig{
		InstructionsDir: t.TempDir(),
		Models:          RoleModels{Default: "gpt-4"},
	})
	require.Error(t, err)
}

func TestBuildRosterRejectsEmptyInstructionFile(t *testing.T) {
	dir := t.TempDir()
	writeInstructionFiles(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weather_agent.txt"), []byte("  \n"), 0o644))

	_, err := BuildRoster(RosterConfig{
		InstructionsDir: dir,
		Models:          RoleModels{Default: "gpt-4"},
	})
	require.Error(t, err)
}

func TestWriteDefaultInstructions(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteDefaultInstructions(dir)
	require.NoError(t, err)
	assert.Len(t, written, len(instructionFiles))

	// The scaffolded files are immediately usable by BuildRoster.
	reg, err := BuildRoster(RosterConfig{
		InstructionsDir: dir,
		Models:          RoleModels{Default: "gpt-4"},
		Criteria:        "default criteria",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())

	// Re-running skips existing files.
	again, err := WriteDefaultInstructions(dir)
	require.NoError(t, err)
	assert.Empty(t, again)
}

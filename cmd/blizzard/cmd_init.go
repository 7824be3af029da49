package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blizzardhq/blizzard/internal/agents"
	"github.com/blizzardhq/blizzard/internal/district"
	"github.com/blizzardhq/blizzard/internal/projectconfig"
	"github.com/blizzardhq/blizzard/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new prediction project",
		Long: `Initialize a new prediction project.

Creates a .blizzard.yaml config file, starter agent instruction files,
district closure criteria, and district settings.

Use --interactive to run a guided wizard that collects district details.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided district setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfg := projectconfig.New()
	settings := &district.Settings{
		SnowDays: district.SnowDays{Allotted: 6},
		Community: district.Community{
			BusDependentPercent: 70,
		},
	}

	// Run interactive wizard if requested
	if interactive {
		spec, err := wizard.RunDistrictWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		cfg.Environment = spec.Environment
		cfg.Location.ZipCode = spec.ZipCode
		settings = spec.Settings()
	}

	var created []string

	// .blizzard.yaml
	cfgData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cfgPath := filepath.Join(dir, ".blizzard.yaml")
	if err := writeIfAbsent(cfgPath, cfgData); err != nil {
		return err
	}
	created = append(created, cfgPath)

	// District settings and closure criteria
	districtDir := filepath.Join(dir, "config", "district")
	if err := os.MkdirAll(districtDir, 0o755); err != nil {
		return fmt.Errorf("failed to create district directory: %w", err)
	}

	settingsData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal district settings: %w", err)
	}
	settingsPath := filepath.Join(dir, district.SettingsPath)
	if err := writeIfAbsent(settingsPath, settingsData); err != nil {
		return err
	}
	created = append(created, settingsPath)

	criteriaPath := filepath.Join(districtDir, "closure_criteria.txt")
	if err := writeIfAbsent(criteriaPath, []byte(district.DefaultCriteria+"\n")); err != nil {
		return err
	}
	created = append(created, criteriaPath)

	// Starter agent instructions
	instructionPaths, err := agents.WriteDefaultInstructions(filepath.Join(dir, cfg.Paths.Instructions))
	if err != nil {
		return err
	}
	created = append(created, instructionPaths...)

	// Static output directory for run results and the dashboard
	if err := os.MkdirAll(filepath.Join(dir, cfg.Paths.Static), 0o755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized prediction project:") //nolint:errcheck
	for _, path := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path) //nolint:errcheck
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext: set OPENAI_API_KEY and WEATHER_API_KEY, then run `blizzard predict`.") //nolint:errcheck

	return nil
}

// writeIfAbsent writes data to path unless the file already exists.
// Re-running init never clobbers a tuned project.
func writeIfAbsent(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

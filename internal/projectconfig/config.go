// Package projectconfig provides the ProjectConfig struct and loader for
// .blizzard.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultStaticDir       = "static/"
	DefaultInstructionsDir = "agent instructions/"
	DefaultDistrictDir     = "."
	DefaultLogsDir         = "logs/"
	DefaultCacheDir        = ".cache/weather/"

	DefaultModel         = "gpt-4"
	DefaultTimeoutSec    = 30
	DefaultMaxIterations = 10

	DefaultZipCode    = "49341"
	DefaultServerPort = 3000

	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// PathsConfig holds directory paths for static output, agent instructions,
// district configuration, and logs.
type PathsConfig struct {
	Static       string `yaml:"static,omitempty"`
	Instructions string `yaml:"instructions,omitempty"`
	District     string `yaml:"district,omitempty"`
	Logs         string `yaml:"logs,omitempty"`
	Cache        string `yaml:"cache,omitempty"`
}

// ModelsConfig selects a language model per role.
type ModelsConfig struct {
	Default   string `yaml:"default,omitempty"`
	Weather   string `yaml:"weather,omitempty"`
	Lead      string `yaml:"lead,omitempty"`
	Assistant string `yaml:"assistant,omitempty"`
	Blizzard  string `yaml:"blizzard,omitempty"`
}

// EngineConfig holds agent invocation parameters.
type EngineConfig struct {
	BaseURL       string `yaml:"base_url,omitempty"`
	TimeoutSec    int    `yaml:"timeout_seconds,omitempty"`
	MaxIterations int    `yaml:"max_iterations,omitempty"`
	SessionLog    *bool  `yaml:"session_log,omitempty"`
}

// LocationConfig holds the forecast location.
type LocationConfig struct {
	ZipCode string `yaml:"zip_code,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .blizzard.yaml.
// Secrets (API keys) never live here; they come from the environment only.
type ProjectConfig struct {
	Environment string         `yaml:"environment,omitempty"`
	Paths       PathsConfig    `yaml:"paths,omitempty"`
	Models      ModelsConfig   `yaml:"models,omitempty"`
	Engine      EngineConfig   `yaml:"engine,omitempty"`
	Location    LocationConfig `yaml:"location,omitempty"`
	Server      ServerConfig   `yaml:"server,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Environment: EnvDevelopment,
		Paths: PathsConfig{
			Static:       DefaultStaticDir,
			Instructions: DefaultInstructionsDir,
			District:     DefaultDistrictDir,
			Logs:         DefaultLogsDir,
			Cache:        DefaultCacheDir,
		},
		Models: ModelsConfig{
			Default: DefaultModel,
		},
		Engine: EngineConfig{
			TimeoutSec:    DefaultTimeoutSec,
			MaxIterations: DefaultMaxIterations,
		},
		Location: LocationConfig{
			ZipCode: DefaultZipCode,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
	}
}

// Production reports whether published output files should be used.
func (c *ProjectConfig) Production() bool {
	return c.Environment == EnvProduction
}

// Load finds .blizzard.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults, and finally applies
// environment variable overrides. If no config file is found, returns
// defaults (plus env overrides) with a nil error. Real I/O errors are
// returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("loading .blizzard.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .blizzard.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.applyEnv()
	return cfg, nil
}

// findConfigFile walks up from dir looking for .blizzard.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".blizzard.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Environment != "" {
		dst.Environment = src.Environment
	}

	if src.Paths.Static != "" {
		dst.Paths.Static = src.Paths.Static
	}
	if src.Paths.Instructions != "" {
		dst.Paths.Instructions = src.Paths.Instructions
	}
	if src.Paths.District != "" {
		dst.Paths.District = src.Paths.District
	}
	if src.Paths.Logs != "" {
		dst.Paths.Logs = src.Paths.Logs
	}
	if src.Paths.Cache != "" {
		dst.Paths.Cache = src.Paths.Cache
	}

	if src.Models.Default != "" {
		dst.Models.Default = src.Models.Default
	}
	if src.Models.Weather != "" {
		dst.Models.Weather = src.Models.Weather
	}
	if src.Models.Lead != "" {
		dst.Models.Lead = src.Models.Lead
	}
	if src.Models.Assistant != "" {
		dst.Models.Assistant = src.Models.Assistant
	}
	if src.Models.Blizzard != "" {
		dst.Models.Blizzard = src.Models.Blizzard
	}

	if src.Engine.BaseURL != "" {
		dst.Engine.BaseURL = src.Engine.BaseURL
	}
	if src.Engine.TimeoutSec != 0 {
		dst.Engine.TimeoutSec = src.Engine.TimeoutSec
	}
	if src.Engine.MaxIterations != 0 {
		dst.Engine.MaxIterations = src.Engine.MaxIterations
	}
	if src.Engine.SessionLog != nil {
		dst.Engine.SessionLog = src.Engine.SessionLog
	}

	if src.Location.ZipCode != "" {
		dst.Location.ZipCode = src.Location.ZipCode
	}

	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
}

// Environment variable names. BLIZZARD_ENV and the model overrides follow
// the deployment's existing conventions.
const (
	EnvVarEnvironment    = "BLIZZARD_ENV"
	EnvVarZipCode        = "ZIP_CODE"
	EnvVarDefaultModel   = "MODEL_NAME"
	EnvVarWeatherModel   = "WEATHER_MODEL"
	EnvVarAssistantModel = "ASSISTANT_MODEL"
	EnvVarBlizzardModel  = "BLIZZARD_MODEL"
	EnvVarMaxIterations  = "BLIZZARD_MAX_ITERATIONS"
)

// applyEnv overlays environment variables on top of file and default values.
// Env always wins so scheduled runs can be steered without editing files.
func (c *ProjectConfig) applyEnv() {
	if v := os.Getenv(EnvVarEnvironment); v != "" {
		c.Environment = v
	}
	if v := os.Getenv(EnvVarZipCode); v != "" {
		c.Location.ZipCode = v
	}
	if v := os.Getenv(EnvVarDefaultModel); v != "" {
		c.Models.Default = v
	}
	if v := os.Getenv(EnvVarWeatherModel); v != "" {
		c.Models.Weather = v
	}
	if v := os.Getenv(EnvVarAssistantModel); v != "" {
		c.Models.Assistant = v
	}
	if v := os.Getenv(EnvVarBlizzardModel); v != "" {
		// The deployment reuses one model for the lead and the decision role.
		c.Models.Lead = v
		c.Models.Blizzard = v
	}
	if v := os.Getenv(EnvVarMaxIterations); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			c.Engine.MaxIterations = n
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blizzardhq/blizzard/internal/agents"
	"github.com/blizzardhq/blizzard/internal/cache"
	"github.com/blizzardhq/blizzard/internal/district"
	"github.com/blizzardhq/blizzard/internal/execution"
	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/orchestration"
	"github.com/blizzardhq/blizzard/internal/projectconfig"
	"github.com/blizzardhq/blizzard/internal/session"
	"github.com/blizzardhq/blizzard/internal/store"
	"github.com/blizzardhq/blizzard/internal/weather"
)

var (
	predictZip        string
	predictIterations int
	predictVerbose    bool
	predictSessionLog bool
)

func newPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a snow day prediction for tomorrow",
		Long: `Run a snow day prediction for tomorrow.

Fetches tonight-and-tomorrow-morning forecast data, runs the analyst panel
to a validated verdict, and commits the result to the prediction store.

Requires OPENAI_API_KEY and WEATHER_API_KEY in the environment (a .env file
in the working directory is honored).`,
		Args: cobra.NoArgs,
		RunE: predictCommandE,
	}

	cmd.Flags().StringVar(&predictZip, "zip", "", "ZIP code override for the forecast location")
	cmd.Flags().IntVar(&predictIterations, "max-iterations", 0, "Override the conversation iteration ceiling")
	cmd.Flags().BoolVarP(&predictVerbose, "verbose", "v", false, "Print each turn as it completes")
	cmd.Flags().BoolVar(&predictSessionLog, "session-log", false, "Write an NDJSON session event log")

	return cmd
}

func predictCommandE(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine; keys may come from the real environment.
	_ = godotenv.Load()

	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	if predictZip != "" {
		cfg.Location.ZipCode = predictZip
	}
	if predictIterations > 0 {
		cfg.Engine.MaxIterations = predictIterations
	}

	logger := slog.Default()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prompt, location, err := buildInitialPrompt(ctx, cfg, logger)
	if err != nil {
		return err
	}

	registry, err := buildRoster(cfg, logger)
	if err != nil {
		return err
	}

	engine, err := execution.NewOpenAIEngine(execution.OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: cfg.Engine.BaseURL,
		Timeout: time.Duration(cfg.Engine.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	opts := []orchestration.Option{
		orchestration.WithMaxIterations(cfg.Engine.MaxIterations),
		orchestration.WithLogger(logger),
	}
	var sessionLog session.Logger = session.NopLogger{}
	if predictSessionLog || (cfg.Engine.SessionLog != nil && *cfg.Engine.SessionLog) {
		jsonLog, err := session.NewJSONLogger(session.DefaultLogPath(cfg.Paths.Logs))
		if err != nil {
			return fmt.Errorf("opening session log: %w", err)
		}
		defer jsonLog.Close() //nolint:errcheck
		sessionLog = jsonLog
		opts = append(opts, orchestration.WithSessionLogger(jsonLog))
		fmt.Printf("Session log: %s\n", jsonLog.Path())
	}

	orch := orchestration.New(registry, engine, opts...)
	if predictVerbose {
		orch.OnProgress(verboseProgressListener)
	} else {
		orch.OnProgress(newSimpleProgressListener())
	}

	fmt.Printf("Predicting for: %s (ZIP %s)\n", location, cfg.Location.ZipCode)
	fmt.Printf("Environment: %s\n\n", cfg.Environment)

	outcome, runErr := orch.Run(ctx, prompt)

	// Every terminal outcome is persisted, including failures: the history
	// log records unresolved days rather than skipping them.
	if outcome != nil && outcome.State.Terminal() {
		resultStore := store.New(cfg.Paths.Static, cfg.Production(), logger)
		if err := resultStore.CommitRun(outcome.Record(), outcome.HistoryRecord()); err != nil {
			if runErr != nil {
				logger.Error("committing failed run", "error", err)
				return runErr
			}
			return fmt.Errorf("committing run: %w", err)
		}
		_ = sessionLog.Log(session.NewEvent(session.EventCommit, map[string]any{
			"run_id": outcome.RunID,
			"state":  string(outcome.State),
			"path":   resultStore.CurrentPath(),
		}))
		fmt.Printf("\nResults saved to: %s\n", resultStore.CurrentPath())
	}

	if runErr != nil {
		return runErr
	}

	printOutcome(outcome)

	if outcome.State != models.StateTerminated {
		return &UnresolvedError{
			Message: fmt.Sprintf("no validated verdict after %d iteration(s)", outcome.Iterations),
		}
	}
	return nil
}

// buildInitialPrompt fetches the forecast and renders the seed message for
// the conversation. Forecasts are cached for an hour so a re-run after a
// transient failure does not hit the weather API again.
func buildInitialPrompt(ctx context.Context, cfg *projectconfig.ProjectConfig, logger *slog.Logger) (prompt, location string, err error) {
	forecastCache := cache.New(cfg.Paths.Cache, time.Hour)
	cacheKey := cache.Key(cfg.Location.ZipCode, time.Now())

	forecast, ok := forecastCache.Get(cacheKey)
	if !ok {
		client, err := weather.NewClient(weather.Config{
			APIKey:  os.Getenv("WEATHER_API_KEY"),
			ZipCode: cfg.Location.ZipCode,
			Logger:  logger,
		})
		if err != nil {
			return "", "", err
		}

		forecast, err = client.Fetch(ctx)
		if err != nil {
			return "", "", fmt.Errorf("fetching forecast: %w", err)
		}
		if err := forecastCache.Put(cacheKey, forecast); err != nil {
			logger.Debug("caching forecast failed", "error", err)
		}
	}

	window, err := weather.RelevantConditions(forecast)
	if err != nil {
		return "", "", err
	}
	return weather.InitialPrompt(window), window.Location, nil
}

// buildRoster loads agent instructions and district context.
func buildRoster(cfg *projectconfig.ProjectConfig, logger *slog.Logger) (*agents.Registry, error) {
	criteria := district.LoadCriteria(cfg.Paths.District, logger)

	settings, err := district.LoadSettings(cfg.Paths.District)
	if err != nil {
		logger.Warn("district settings unavailable", "error", err)
	}

	return agents.BuildRoster(agents.RosterConfig{
		InstructionsDir: cfg.Paths.Instructions,
		Models: agents.RoleModels{
			Default:   cfg.Models.Default,
			Weather:   cfg.Models.Weather,
			Lead:      cfg.Models.Lead,
			Assistant: cfg.Models.Assistant,
			Blizzard:  cfg.Models.Blizzard,
		},
		Criteria:     criteria,
		SettingsText: settings.Format(),
	})
}

func printOutcome(outcome *orchestration.RunOutcome) {
	fmt.Println()
	fmt.Println("══════════════════════════════════════════")
	fmt.Println(" SNOW DAY VERDICT")
	fmt.Println("══════════════════════════════════════════")

	switch outcome.State {
	case models.StateTerminated:
		fmt.Printf("Decision:    %s\n", outcome.Verdict.CallDecision)
		fmt.Printf("Probability: %d%%\n", outcome.Verdict.ProbabilityPercent)
	case models.StateBudgetExceeded:
		fmt.Println("Decision:    UNRESOLVED (iteration budget exhausted)")
	}
	fmt.Printf("Iterations:  %d\n", outcome.Iterations)
	fmt.Printf("Duration:    %v\n", time.Duration(outcome.DurationMs)*time.Millisecond)
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/config"
	"github.com/planweave/planweave/internal/logger"
	"github.com/planweave/planweave/internal/observability"
	"github.com/planweave/planweave/pkg/agent"
	"github.com/planweave/planweave/pkg/engine"
	"github.com/planweave/planweave/pkg/planning"
	"github.com/planweave/planweave/pkg/result"
	"github.com/planweave/planweave/pkg/tool"
)

var (
	planProvider    string
	planModel       string
	planMaxTurns    int
	planMetricsAddr string
)

var planCmd = &cobra.Command{
	Use:   "plan [description]",
	Short: "Run a planning session",
	Long: `Run a planning session against the given project description.
The model walks the planning tools (requirements analysis, short planning,
research, architecture design) and the produced documents are printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planProvider, "provider", "", "LLM provider to use (openai, anthropic); defaults to the first configured provider")
	planCmd.Flags().StringVar(&planModel, "model", "", "model override")
	planCmd.Flags().IntVar(&planMaxTurns, "max-turns", 0, "maximum tool turns per session")
	planCmd.Flags().StringVar(&planMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090) for the duration of the session")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	providerCfg, err := selectProvider(cfg, planProvider)
	if err != nil {
		return err
	}

	model := planModel
	if model == "" {
		model = providerCfg.Model
	}
	if model == "" {
		return fmt.Errorf("no model configured for provider %s; set providers[].model or pass --model", providerCfg.Name)
	}

	if planMetricsAddr != "" {
		stop := serveMetrics(planMetricsAddr, log)
		defer stop()
	}

	var toolOpts []tool.Option
	if cfg.Validation.Lenient() {
		toolOpts = append(toolOpts, tool.WithLenientValidation())
	}

	registry := tool.NewRegistry()
	if err := planning.RegisterPlanningTools(registry, toolOpts...); err != nil {
		return fmt.Errorf("failed to register planning tools: %w", err)
	}

	normalizer := result.NewNormalizer()
	normalizer.CondensedLimit = cfg.Output.CondensedLimit

	executor, err := engine.New(registry, engine.Config{
		MaxConcurrency: cfg.Executor.MaxConcurrency,
		DefaultTimeout: cfg.Executor.DefaultTimeout(),
		MaxRetries:     cfg.Executor.MaxRetries,
		BackoffBase:    cfg.Executor.BackoffBase(),
		BackoffCap:     cfg.Executor.BackoffCap(),
	}, log.GetZerolog(), engine.WithNormalizer(normalizer))
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}

	provider, err := agent.NewProvider(providerCfg.Name, providerCfg.APIKey)
	if err != nil {
		return err
	}

	runner, err := agent.NewRunner(agent.RunnerConfig{
		Registry:   registry,
		Executor:   executor,
		Provider:   provider,
		Normalizer: normalizer,
		Logger:     log.GetZerolog(),
		MaxTurns:   planMaxTurns,
	})
	if err != nil {
		return err
	}

	session, err := runner.Run(cmd.Context(), agent.RunParams{
		Prompt:       strings.Join(args, " "),
		Model:        model,
		SystemPrompt: planning.SystemPrompt,
	})
	if err != nil {
		return fmt.Errorf("planning session failed: %w", err)
	}

	fmt.Println(session.Response)

	if len(session.Artifacts) > 0 {
		data, err := json.MarshalIndent(session.Artifacts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render artifacts: %w", err)
		}
		fmt.Println(string(data))
	}

	return nil
}

// serveMetrics exposes the Prometheus endpoint for the session's lifetime.
// The returned function shuts the server down.
func serveMetrics(addr string, log *logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl := log.GetZerolog()
			zl.Warn().Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// setup loads configuration and initialises logging shared by all commands.
func setup() (*config.Config, *logger.Logger, func(), error) {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath()
	}

	cfg, err := config.NewLoader(path).Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:   level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialise logger: %w", err)
	}

	return cfg, log, func() { _ = log.Close() }, nil
}

// selectProvider picks the named provider, or the first configured one.
func selectProvider(cfg *config.Config, name string) (config.ProviderConfig, error) {
	if len(cfg.Providers) == 0 {
		return config.ProviderConfig{}, fmt.Errorf("no LLM providers configured; add a providers entry to the config file")
	}
	if name == "" {
		return cfg.Providers[0], nil
	}
	for _, p := range cfg.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return config.ProviderConfig{}, fmt.Errorf("provider %q not configured", name)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".planweave", "planweave.json")
}

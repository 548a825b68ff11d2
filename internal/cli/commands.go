package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/config"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/dataflows"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/history"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/narrative"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/research"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/snapshot"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var mgr *config.Manager

	rootCmd := &cobra.Command{
		Use:   "nivesh",
		Short: "Nivesh Copilot - automated equity research for Indian markets",
		Long: `Nivesh Copilot runs a staged research pipeline over Indian (NSE/BSE) stocks
and sectors: company background, sector trends, policy impact, investor
sentiment, a deterministic technical and risk check, and a risk-aware
investment suggestion.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			m, err := loadConfig(path)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			mgr = m
			*cfg = mgr.Get()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(mgr)
		},
	}

	rootCmd.AddCommand(newResearchCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to the JSON config file (default: user config dir)")

	return rootCmd
}

// loadConfig opens the file-backed config manager, seeding a fresh file
// from defaults and environment overrides when none exists.
func loadConfig(path string) (*config.Manager, error) {
	return config.NewManager(
		config.WithConfigPath(path),
		config.WithInitialConfig(config.DefaultConfig()),
	)
}

// newResearchCmd creates the research command.
func newResearchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research [QUERY]",
		Short: "Run a research pipeline for a stock or sector query",
		Long: `Run the full research pipeline for a natural-language query.
Example: nivesh research "Tell me about Tata Motors stock"
Example: nivesh research "Should I buy defence shares?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			company, _ := cmd.Flags().GetString("company")
			return runResearchCommand(cfg, query, company)
		},
	}

	cmd.Flags().String("company", "", "Explicit company name, skips extraction from the query")

	return cmd
}

// newHistoryCmd creates the history command.
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent research runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistoryCommand(cfg, limit)
		},
	}

	cmd.Flags().Int("limit", 10, "Number of runs to show")

	return cmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Nivesh Copilot v1.0.0")
			fmt.Println("Automated research for Indian equities and sectors")
		},
	}
}

// newConfigCmd creates the config command.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// buildRunner wires the research runner from the configuration. Online
// collaborators are dropped when online tools are disabled; the pipeline
// then degrades to placeholders rather than failing.
func buildRunner(ctx context.Context, cfg *config.Config) (*research.Runner, error) {
	nc, err := narrative.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create narrative client: %w", err)
	}

	var (
		web  *dataflows.WebSearchClient
		news *dataflows.GoogleNewsClient
	)
	var builder *snapshot.Builder
	if cfg.OnlineTools {
		web = dataflows.NewWebSearchClient(cfg)
		news = dataflows.NewGoogleNewsClient(cfg)
		market := dataflows.NewYahooFinanceClient(cfg)
		builder = snapshot.NewBuilder(market, web, news, nc, cfg.LookbackDays)
	}

	if web == nil {
		return research.NewRunner(nc, nil, nil, nil, cfg.ResultsDir), nil
	}
	return research.NewRunner(nc, web, news, builder, cfg.ResultsDir), nil
}

// runResearchCommand executes one research run end to end.
func runResearchCommand(cfg *config.Config, query, company string) error {
	ctx := context.Background()
	if cfg.RunTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.RunTimeoutSeconds)*time.Second)
		defer cancel()
	}

	runner, err := buildRunner(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Println(infoStyle.Render("Researching: " + query))
	res, err := runner.Run(ctx, query, company)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	displayStages(res.Stages)
	displayWarnings(res)
	displayReport(res)

	recordRun(ctx, cfg, res)
	return nil
}

// recordRun stores the run in the local history database. History is an
// aid, not a dependency; failures are reported and swallowed.
func recordRun(ctx context.Context, cfg *config.Config, res *research.Result) {
	store, err := history.Open(filepath.Join(cfg.DataDir, "nivesh.db"))
	if err != nil {
		displayError(fmt.Errorf("history unavailable: %w", err))
		return
	}
	defer store.Close()

	status := history.StatusDone
	for _, st := range res.Stages {
		if !st.OK {
			status = history.StatusDegraded
			break
		}
	}

	sections := make([]history.SectionRecord, 0, len(res.Sections))
	for _, s := range res.Sections {
		sections = append(sections, history.SectionRecord{Title: s.Title, Body: s.Body})
	}

	run := history.RunRecord{
		ID:         fmt.Sprintf("run-%d", time.Now().UnixNano()),
		Query:      res.Query,
		Kind:       string(res.Kind),
		Entity:     res.Entity,
		Ticker:     res.Ticker,
		ReportPath: res.ReportPath,
		Status:     status,
	}
	if err := store.SaveRun(ctx, run, sections); err != nil {
		displayError(fmt.Errorf("saving history: %w", err))
	}
}

// runHistoryCommand lists recent runs from the history database.
func runHistoryCommand(cfg *config.Config, limit int) error {
	store, err := history.Open(filepath.Join(cfg.DataDir, "nivesh.db"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No research runs recorded yet.")
		return nil
	}

	fmt.Println(sectionTitleStyle.Render("Recent research runs"))
	for _, r := range runs {
		entity := r.Entity
		if r.Ticker != "" {
			entity = fmt.Sprintf("%s (%s)", entity, r.Ticker)
		}
		fmt.Printf("  %s  [%s/%s]  %s  %q\n", r.CreatedAt, r.Kind, r.Status, entity, r.Query)
		if r.ReportPath != "" {
			fmt.Printf("      report: %s\n", r.ReportPath)
		}
	}
	return nil
}

// showConfig displays the current configuration.
func showConfig(cfg *config.Config) {
	fmt.Println("Current Nivesh Copilot configuration:")
	fmt.Println("=====================================")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("LLM Model:            %s\n", cfg.LLMModel)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Println()
	fmt.Printf("Default Exchange:     %s\n", cfg.DefaultExchange)
	fmt.Printf("Lookback Days:        %d\n", cfg.LookbackDays)
	fmt.Printf("Run Timeout:          %ds\n", cfg.RunTimeoutSeconds)
	fmt.Println()
	fmt.Printf("Online Tools:         %t\n", cfg.OnlineTools)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("API configuration:")
	fmt.Println("------------------")
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("OpenAI API:           configured")
	} else {
		fmt.Println("OpenAI API:           not configured")
	}
	if cfg.DeepSeekAPIKey != "" {
		fmt.Println("DeepSeek API:         configured")
	} else {
		fmt.Println("DeepSeek API:         not configured")
	}
}

// validateConfig validates the configuration and dependencies.
func validateConfig(cfg *config.Config) error {
	fmt.Println("Validating Nivesh Copilot configuration...")

	fmt.Print("Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("failed")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("ok")

	fmt.Print("Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("ok")

	fmt.Print("Checking API keys... ")
	var warnings []string
	switch cfg.LLMProvider {
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			warnings = append(warnings, "DEEPSEEK_API_KEY not set for the deepseek provider")
		}
	default:
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OPENAI_API_KEY not set for the openai provider")
		}
	}
	if len(warnings) > 0 {
		fmt.Println("warnings")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	} else {
		fmt.Println("ok")
	}

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("Configuration validation completed successfully.")
	} else {
		fmt.Printf("Configuration validation completed with %d warning(s).\n", len(warnings))
		fmt.Println("Narrative stages will degrade to placeholders without a working LLM key.")
	}
	return nil
}

// runInteractiveMode starts the interactive research loop. The config file
// stays watched for the whole session, so edits on disk apply to the next
// research run without a restart.
func runInteractiveMode(mgr *config.Manager) error {
	displayWelcomeBanner()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := mgr.Watch(ctx, func(c config.Config) {
		log.Printf("[config] reloaded %s", mgr.Path())
	}); err != nil {
		log.Printf("[config] watch unavailable: %v", err)
	}

	for {
		action, err := promptForNextAction()
		if err != nil {
			// Ctrl-C inside a prompt ends the session cleanly.
			fmt.Println()
			return nil
		}

		switch action {
		case actionExit:
			fmt.Println("Happy investing. Nothing here is financial advice.")
			return nil

		case actionHistory:
			cfg := mgr.Get()
			if err := runHistoryCommand(&cfg, 10); err != nil {
				displayError(err)
			}

		case actionResearch:
			query, err := promptForQuery()
			if err != nil {
				continue
			}
			company, err := promptForCompanyOverride()
			if err != nil {
				continue
			}
			cfg := mgr.Get()
			if err := runResearchCommand(&cfg, query, company); err != nil {
				displayError(err)
			}
		}

		fmt.Println()
		fmt.Println(strings.Repeat("-", 60))
		fmt.Println()
	}
}

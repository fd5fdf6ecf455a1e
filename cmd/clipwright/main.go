package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lamim/clipwright/internal/api"
	"github.com/lamim/clipwright/internal/config"
	"github.com/lamim/clipwright/internal/export"
	"github.com/lamim/clipwright/internal/metrics"
	"github.com/lamim/clipwright/internal/pipeline"
	"github.com/lamim/clipwright/internal/transcript"
	"github.com/lamim/clipwright/pkg/models"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	envFile    string
	outputDir  string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clipwright",
		Short: "Clipwright - Caption-to-Article Generator",
		Long: `Clipwright turns a video's caption track into a polished article
through a three-phase pipeline: classify the content type, extract its
structural elements, then write the article.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	}

	runCmd := &cobra.Command{
		Use:   "run <url-or-video-id>",
		Short: "Run the full caption-to-article pipeline",
		Long: `Run the complete pipeline for one video:
1. Fetch and normalize the caption track
2. Classify the content type
3. Extract structural elements
4. Write the article
Artifacts are exported to a timestamped session directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runPipeline,
	}

	runCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	runCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to environment file")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Session output root (overrides config)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	transcriptCmd := &cobra.Command{
		Use:   "transcript <url-or-video-id>",
		Short: "Fetch and print the normalized transcript",
		Long:  "Fetch the caption track for a video, normalize it, and print the timestamped transcript without running generation.",
		Args:  cobra.ExactArgs(1),
		RunE:  fetchTranscript,
	}

	transcriptCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	transcriptCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(transcriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// barReporter surfaces phase transitions on a terminal progress bar
type barReporter struct {
	bar *progressbar.ProgressBar
}

func newBarReporter() *barReporter {
	return &barReporter{
		bar: progressbar.Default(int64(len(models.Phases)), "Generating"),
	}
}

func (r *barReporter) PhaseStarted(phase models.Phase) {
	r.bar.Describe(fmt.Sprintf("Phase: %s", phase))
}

func (r *barReporter) PhaseSucceeded(models.Phase) {
	_ = r.bar.Add(1)
}

func (r *barReporter) PhaseFailed(phase models.Phase, err error) {
	r.bar.Describe(fmt.Sprintf("Failed: %s", phase))
}

func runPipeline(cmd *cobra.Command, args []string) error {
	reference := args[0]

	// Secrets come from the environment; the env file just seeds it
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: failed to load env file: %v\n", err)
			}
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Loaded env file: %s\n", envFile)
		}
	}

	cfg, secrets, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	sessionMgr, err := export.NewSessionManager(cfg.OutputDir, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	logger, logFile, err := export.SetupLogger(sessionMgr, logLevel)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer func() {
		if logFile != nil {
			_ = logFile.Sync()
			_ = logFile.Close()
		}
	}()

	logger.Info("Clipwright starting",
		"version", Version,
		"config", configPath,
		"session_dir", sessionMgr.GetSessionDir())

	if err := sessionMgr.BackupConfig(configPath); err != nil {
		return fmt.Errorf("failed to backup config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(logger)
	client := api.NewClient(secrets, collector, logger)

	source := transcript.NewTimedTextSource(cfg.CaptionLanguage, logger)
	normalizer := transcript.NewNormalizer(source, logger)

	bundle, err := normalizer.NormalizeReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("transcript extraction failed: %w", err)
	}
	logger.Info("Transcript ready",
		"video_id", bundle.VideoID,
		"segments", len(bundle.Segments))

	controller := pipeline.NewController(cfg, client, newBarReporter(), collector, logger)

	state, err := controller.Start(ctx, bundle)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	for state.Stage == models.StageClassified || state.Stage == models.StageExtracted {
		state, err = controller.Advance(ctx)
		if err != nil {
			return fmt.Errorf("pipeline failed: %w", err)
		}
	}

	if state.Stage != models.StageCompleted {
		return fmt.Errorf("pipeline halted at stage %s", state.Stage)
	}

	exporter := export.NewExporter(sessionMgr, logger)
	if err := exporter.ExportAll(state); err != nil {
		return fmt.Errorf("failed to export artifacts: %w", err)
	}

	stats := controller.Stats()
	logger.Info("Run complete",
		"video_id", bundle.VideoID,
		"phases_run", stats.PhasesRun,
		"successful", stats.SuccessCount,
		"failed", stats.FailureCount,
		"duration", stats.TotalDuration,
		"session_dir", sessionMgr.GetSessionDir())

	return nil
}

func fetchTranscript(cmd *cobra.Command, args []string) error {
	reference := args[0]

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	language := captionLanguage(configPath, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := transcript.NewTimedTextSource(language, logger)
	normalizer := transcript.NewNormalizer(source, logger)

	bundle, err := normalizer.NormalizeReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("transcript extraction failed: %w", err)
	}

	fmt.Print(bundle.FormattedText)
	return nil
}

// captionLanguage resolves the caption language from the config file. An
// absent file falls back to the default quietly; a broken one warns first.
func captionLanguage(configPath string, warn io.Writer) string {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(warn, "Warning: failed to load config: %v\n", err)
		}
		return "en"
	}
	return cfg.CaptionLanguage
}

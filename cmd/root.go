package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/rustmaps/config"
	"github.com/s0up4200/rustmaps/rustmaps"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *rustmaps.Client

	// Command flags
	staging bool
	debug   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rustmaps",
	Short: "Look up and generate Rust maps via the RustMaps API",
	Long: `rustmaps is a CLI for the RustMaps API. It fetches generated maps by ID
or by seed and size, requests new maps, and reports your rate limits.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&staging, "staging", false, "query the staging map dataset")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	if cmd.Flags().Changed("staging") {
		cfg.API.Staging = staging
	}

	logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())

	client, err = rustmaps.NewClient(cfg.API.Key,
		rustmaps.WithBaseURL(cfg.API.BaseURL),
		rustmaps.WithTimeout(cfg.API.Timeout),
		rustmaps.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create RustMaps client: %w", err)
	}

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) {
	if client != nil {
		client.Close()
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stagingOption returns the staging flag resolved from config and flags
func stagingOption() rustmaps.RequestOption {
	return rustmaps.WithStaging(cfg.API.Staging)
}

// printResult writes a payload as indented JSON, or a notice when absent
func printResult(w io.Writer, what string, v any) error {
	if v == nil {
		fmt.Fprintf(w, "No %s found.\n", what)
		return nil
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", what, err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/csvtype-cli/internal/config"
	"github.com/KaramelBytes/csvtype-cli/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger shared by subcommands; always non-nil after loadConfig.
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "csvtype",
	Short: "csvtype: infer column types of delimited files from regex families",
	Long: `csvtype classifies every cell of a CSV/TSV file against named regular
expression families and reports, per column, how many cells matched each
type, how many were NA tokens, and how many matched nothing ("other").`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Interrupts stop a run at the next row boundary.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvtype/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text | json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		d := cfgpkg.Defaults()
		c = &d
	}
	cfg = c

	lc := logging.Config{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)}
	if debug {
		lc.Level = "debug"
	}
	if logFormat != "" {
		lc.Format = logging.Format(logFormat)
	}
	l, err := logging.New(lc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using default logger\n", err)
		l, _ = logging.New(logging.Config{})
	}
	logger = l
}

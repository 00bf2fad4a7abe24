package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/internal/config"
	"github.com/ardnew/softchar/pkg"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonLog    bool
	timeout    time.Duration

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "softchar",
	Short: "Software character device that repeats a message",
	Long: `softchar - a character device emulated in user space.

Every open of the device reads one message repeated ten times, then
end-of-file. Writes are rejected and only one open is allowed at a time.

The serve command loads the device into an in-process host and exports it
on a FIFO bus directory. The other commands are clients of that bus.

Configuration is read from --config (YAML), then SOFTCHAR_* environment
variables such as SOFTCHAR_BUS_DIR and SOFTCHAR_LOG_LEVEL.

Examples:
  # Terminal 1
  softchar serve

  # Terminal 2
  softchar cat
  softchar write hello
  softchar dmesg`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) logging")
	flags.BoolVar(&jsonLog, "json", false, "use JSON log format")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "client request timeout (0 disables)")
}

// setup loads the configuration and applies its logging settings.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	pkg.SetLogLevel(level)
	pkg.SetLogFormat(logFormat())

	pkg.LogDebug(pkg.ComponentCLI, "config loaded",
		"command", cmd.Name(),
		"busDir", cfg.BusDir,
		"device", cfg.Device)
	return nil
}

// logFormat returns the log format selected by flag or config.
func logFormat() pkg.LogFormat {
	if jsonLog || (cfg != nil && cfg.JSONLog) {
		return pkg.LogFormatJSON
	}
	return pkg.LogFormatText
}

// clientContext bounds a client command by --timeout.
func clientContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// deadlineError turns an expired client timeout into a readable error.
func deadlineError(err error) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("no answer from server within %s (is softchar serve running?): %w", timeout, err)
}

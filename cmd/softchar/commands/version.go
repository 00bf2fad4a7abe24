package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time via -ldflags, for example
//
//	go build -ldflags "-X github.com/ardnew/softchar/cmd/softchar/commands.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// versionString returns a formatted version string.
func versionString() string {
	return fmt.Sprintf("softchar %s (%s) built %s %s/%s",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, versionString())
		if verbose {
			fmt.Fprintf(w, "  go:     %s\n", runtime.Version())
			fmt.Fprintf(w, "  busDir: %s\n", cfg.BusDir)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

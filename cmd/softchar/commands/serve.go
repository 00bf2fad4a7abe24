//go:build unix

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/device"
	"github.com/ardnew/softchar/host"
	"github.com/ardnew/softchar/host/fifo"
	"github.com/ardnew/softchar/internal/config"
	"github.com/ardnew/softchar/pkg"
)

var serveMessage string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the softchar module and export it on the FIFO bus",
	Long: `Load the softchar module into an in-process host and serve the FIFO bus
until interrupted. On SIGINT or SIGTERM the server stops, the sessions of
connected clients are released and the module is unloaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := device.NewMessage(serveMessage)
		if err != nil {
			return fmt.Errorf("message: %w", err)
		}
		return serve(cmd.Context(), cfg, msg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveMessage, "message", device.DefaultMessage, "message repeated by the device")
	rootCmd.AddCommand(serveCmd)
}

// serve runs the device server until ctx is done.
func serve(ctx context.Context, c *config.Config, msg *device.Message) error {
	h := host.New(host.WithLogCapacity(c.LogCapacity))
	h.InstallLogger(pkg.NewHandler(os.Stderr, logFormat()))

	if _, _, err := loadDevice(h, c.Device, msg); err != nil {
		return err
	}

	srv := fifo.NewServer(c.BusDir, h, fifo.WithPollInterval(c.PollInterval))
	serveErr := srv.Serve(ctx)

	// Serve has released every client session, so the module is idle.
	if err := h.UnloadModule(moduleName); err != nil {
		pkg.LogError(pkg.ComponentCLI, "failed to unload module",
			"module", moduleName,
			"error", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

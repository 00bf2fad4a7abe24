//go:build unix

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/ardnew/softchar/host/fifo"
	"github.com/ardnew/softchar/pkg"
)

var writeCmd = &cobra.Command{
	Use:   "write <text>...",
	Short: "Write text to the device",
	Long: `Open the device and write the arguments joined by spaces. The device
rejects every write, so this command reports the error and exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := clientContext(cmd)
		defer cancel()

		text := strings.Join(args, " ")
		n, err := writeDevice(ctx, cfg.BusDir, cfg.Device, []byte(text))
		if err != nil {
			return deadlineError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

// writeDevice opens the named device, writes p and releases the device.
func writeDevice(ctx context.Context, busDir, name string, p []byte) (int, error) {
	cl, err := fifo.Dial(ctx, busDir)
	if err != nil {
		return 0, err
	}
	defer cl.Close()

	if err := cl.Open(ctx, name); err != nil {
		return 0, fmt.Errorf("open %s: %w", name, err)
	}
	defer cl.Release(ctx)

	n, err := cl.Write(ctx, p)
	if err != nil {
		return n, fmt.Errorf("write %s: %w (%s)", name, err, unix.ErrnoName(pkg.Errno(err)))
	}
	return n, nil
}

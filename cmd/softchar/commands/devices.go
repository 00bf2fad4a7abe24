//go:build unix

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/host/fifo"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List registered character devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := clientContext(cmd)
		defer cancel()

		cl, err := fifo.Dial(ctx, cfg.BusDir)
		if err != nil {
			return err
		}
		defer cl.Close()

		devices, err := cl.Devices(ctx)
		if err != nil {
			return deadlineError(err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Character devices:")
		for _, d := range devices {
			fmt.Fprintf(w, "%3d %s\n", d.Major, d.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

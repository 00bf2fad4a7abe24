//go:build unix

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/host/fifo"
)

var dmesgCmd = &cobra.Command{
	Use:   "dmesg",
	Short: "Print the server's kernel log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := clientContext(cmd)
		defer cancel()

		cl, err := fifo.Dial(ctx, cfg.BusDir)
		if err != nil {
			return err
		}
		defer cl.Close()

		lines, err := cl.Log(ctx)
		if err != nil {
			return deadlineError(err)
		}
		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dmesgCmd)
}

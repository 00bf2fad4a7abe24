//go:build unix

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/host/fifo"
	"github.com/ardnew/softchar/internal/config"
)

var catChunk int

var catCmd = &cobra.Command{
	Use:   "cat",
	Short: "Read the device stream to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chunk := cfg.Chunk
		if cmd.Flags().Changed("chunk") {
			chunk = catChunk
		}
		if chunk < 1 || chunk > config.MaxChunk {
			return fmt.Errorf("chunk %d out of range [1, %d]", chunk, config.MaxChunk)
		}

		ctx, cancel := clientContext(cmd)
		defer cancel()
		return deadlineError(catDevice(ctx, cfg.BusDir, cfg.Device, chunk, cmd.OutOrStdout()))
	},
}

func init() {
	catCmd.Flags().IntVar(&catChunk, "chunk", 64, "bytes requested per read")
	rootCmd.AddCommand(catCmd)
}

// catDevice copies one full session of the named device to w.
func catDevice(ctx context.Context, busDir, name string, chunk int, w io.Writer) error {
	cl, err := fifo.Dial(ctx, busDir)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.Open(ctx, name); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	_, copyErr := io.Copy(w, cl.Reader(ctx, chunk))
	if copyErr != nil {
		copyErr = fmt.Errorf("read %s: %w", name, copyErr)
	}
	return errors.Join(copyErr, cl.Release(ctx))
}

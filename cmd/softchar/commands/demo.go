package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardnew/softchar/device"
	"github.com/ardnew/softchar/host"
)

// demoMessage is short enough that a whole session fits on a screen.
const demoMessage = "hi\n"

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: `Run an in-process session against a "hi\n" device`,
	Long: `Load a device repeating "hi\n" into an in-process host and walk through
one session: a 5 byte read, a 100 byte read that drains the stream, a read
at end-of-file, a rejected second open, a rejected write and a refused
unload while the device is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return demo(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// demo runs the walkthrough and prints each step to w.
func demo(w io.Writer) error {
	h := host.New()
	m, dev, err := loadDevice(h, device.DefaultName, device.MustMessage(demoMessage))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "loaded %s, major %d\n", dev.Name(), dev.Major())

	f, err := h.OpenName(dev.Name())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "open: ok (module refs %d)\n", m.Refs())

	for _, n := range []int{5, 100, 5} {
		buf := make([]byte, n)
		got, err := f.Read(buf)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintf(w, "read(%d) = 0, EOF\n", n)
		case err != nil:
			f.Close()
			return err
		default:
			fmt.Fprintf(w, "read(%d) = %d %q\n", n, got, buf[:got])
		}
	}

	if _, err := h.OpenName(dev.Name()); err != nil {
		fmt.Fprintf(w, "second open: %v\n", err)
	}
	if _, err := f.Write([]byte(demoMessage)); err != nil {
		fmt.Fprintf(w, "write: %v\n", err)
	}
	if err := h.UnloadModule(moduleName); err != nil {
		fmt.Fprintf(w, "unload while open: %v\n", err)
	}

	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "release: ok (module refs %d)\n", m.Refs())

	if err := h.UnloadModule(moduleName); err != nil {
		return err
	}
	fmt.Fprintf(w, "unloaded, %d devices registered\n", len(h.Devices()))
	return nil
}

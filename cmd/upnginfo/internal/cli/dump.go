package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nilforge/upng"
)

func newDumpCmd() *cobra.Command {
	var frame int
	var out string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Decode a frame and write its raw pixel buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0], frame, out)
		},
	}
	cmd.Flags().IntVar(&frame, "frame", 0, "frame index to decode")
	cmd.Flags().StringVar(&out, "out", "", "output path for the raw pixel buffer (required)")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runDump(path string, frame int, out string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	src, err := upng.NewFileSource(f)
	if err != nil {
		f.Close()
		return err
	}

	opts := []upng.Option{upng.WithLogger(logger())}
	if crcValidation {
		opts = append(opts, upng.WithCRCValidation(true))
	}
	d := upng.NewDecoder(src, opts...)
	defer d.Close()

	if err := d.ParseHeader(); err != nil {
		return err
	}
	if err := d.SelectFrame(frame); err != nil {
		return err
	}
	if err := d.Decode(); err != nil {
		return err
	}

	return os.WriteFile(out, d.Buffer(), 0o644)
}

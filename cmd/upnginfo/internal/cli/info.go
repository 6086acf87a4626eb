package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nilforge/upng"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print header, frame table, and text entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
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

	fmt.Printf("size:       %dx%d\n", d.Width(), d.Height())
	fmt.Printf("format:     %s (depth %d, %d components)\n", d.Format(), d.BitDepth(), d.Components())
	if x, y := d.XOffset(), d.YOffset(); x != 0 || y != 0 {
		fmt.Printf("offset:     %d,%d\n", x, y)
	}
	if _, n := d.Palette(); n > 0 {
		fmt.Printf("palette:    %d entries\n", n)
	}
	if _, n := d.Alpha(); n > 0 {
		fmt.Printf("alpha:      %d entries\n", n)
	}
	fmt.Printf("frames:     %d\n", d.FrameCount())
	if d.FrameCount() > 1 {
		fmt.Printf("play count: %d (0 = infinite)\n", d.PlayCount())
	}
	for i := 0; i < d.FrameCount(); i++ {
		fr := d.Frame(i)
		fmt.Printf("  frame %d: %dx%d at (%d,%d) delay %d/%d dispose=%d blend=%d\n",
			i, fr.Width, fr.Height, fr.OffsetX, fr.OffsetY, fr.DelayNum, fr.DelayDen, fr.Dispose, fr.Blend)
	}
	for i := 0; i < d.TextCount(); i++ {
		t := d.TextEntryAt(i)
		fmt.Printf("text %q: %q\n", t.Keyword(), t.Text())
	}
	return nil
}

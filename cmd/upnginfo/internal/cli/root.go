package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	crcValidation bool
)

// Execute builds and runs the upnginfo command tree.
func Execute() error {
	root := &cobra.Command{
		Use:   "upnginfo",
		Short: "Inspect PNG and APNG files",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log chunk-level decode activity")
	root.PersistentFlags().BoolVar(&crcValidation, "verify-crc", false, "validate per-chunk CRC-32 values")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newDumpCmd())

	return root.Execute()
}

func logger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

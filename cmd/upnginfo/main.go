// Command upnginfo inspects PNG/APNG files: print header and frame
// metadata, or decode a single frame's pixel buffer to a raw file.
package main

import (
	"fmt"
	"os"

	"github.com/nilforge/upng/cmd/upnginfo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

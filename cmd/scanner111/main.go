// Command scanner111 scans Bethesda-engine crash logs and writes a
// Markdown analysis report next to each one it can read.
package main

import (
	"fmt"
	"os"

	"github.com/evildarkarchon/scanner111/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ClassifyExitCode(err))
}

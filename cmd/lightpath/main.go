// Command lightpath inspects optical bench topologies.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/lightpath/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "lightpath: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// Command hexmatch validates hexadecimal color codes locally or against
// a hexmatch-server.
//
// Usage:
//
//	hexmatch check '#ff8800' abc
//	printf '#fff\n#12\n' | hexmatch check
//	hexmatch explain '#12g'
//	hexmatch -s localhost:5090 remote check '#abc'
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/hexmatch-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		// cli.Exit errors terminate inside Run; anything else lands here.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(command.ExitFailure)
	}
}

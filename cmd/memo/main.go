// Command memo stores personal memos as text files and searches them by meaning.
package main

import (
	"os"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrapper(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

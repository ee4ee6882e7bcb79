// Command padctl drives a virtual game controller from an interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/padctl/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetSessionFactory(openSession)
	cli.SetConfigStoreFactory(openConfigStore)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/raitses/stamp/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(cli.Options{Env: os.LookupEnv})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

// Package main is the entry point for the suratku command line client.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/suratku/suratku/internal/cli"
	"github.com/suratku/suratku/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps err to a process exit status. ExitError carries its own code;
// any other error is 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

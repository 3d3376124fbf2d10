package main

import (
	"fmt"
	"os"

	"hauski/internal/cli"
)

func main() {
	cmd, err := cli.NewToolCommand(cli.ToolValidateAIContext)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(cli.Execute(cmd, os.Args[1:]))
}

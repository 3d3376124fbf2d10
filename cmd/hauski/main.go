package main

import (
	"os"

	"hauski/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(), os.Args[1:]))
}

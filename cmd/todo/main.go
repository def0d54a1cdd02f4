package main

import (
	"fmt"
	"os"

	"todo-store/internal/cli"
)

func main() {
	root := cli.NewRootCommand(nil)
	defer root.Close()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		root.Close()
		os.Exit(1)
	}
}

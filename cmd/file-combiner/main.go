package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jkasimotto/file-combiner/cmd/file-combiner/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

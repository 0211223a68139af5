package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"sdsposter/internal/cli"
	_ "sdsposter/internal/parser/claude"
	_ "sdsposter/internal/parser/gemini"
	_ "sdsposter/internal/parser/openai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command ledger manages the personal finance ledger from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"ledger/internal/cli"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	// Diagnostics go to stderr so command output stays clean.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := cli.SetupLogger(level, os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.ShutdownContext(context.Background(), logger)
	defer stop()

	svc, err := cli.OpenService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err.Error())
		os.Exit(1)
	}

	a := &app{svc: svc, out: os.Stdout, in: os.Stdin, exportDir: cfg.ExportDir}
	runErr := a.run(ctx, os.Args[1:])
	if err := svc.Close(); err != nil {
		logger.Error("Failed to close ledger", log.FieldError, err.Error())
	}

	if runErr != nil {
		if !errors.Is(runErr, errUsage) {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", runErr))
		}
		os.Exit(1)
	}
}

package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// @title Pocket Ledger API
// @version 1.0
// @description Personal finance backend: ledger, shared groups, rewards, analytics, advisor and receipt scanning.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pocket_ledger",
		Short:         "Pocket Ledger personal finance backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCommand()
	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCommand())

	// Running the binary without a subcommand starts the server.
	cmd.RunE = serve.RunE
	return cmd
}

// newLogger builds the process JSON logger and installs it as the slog default.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

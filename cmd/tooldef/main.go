package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattt/tooldef/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by every subcommand
type app struct {
	configPath string
	verbose    bool
	retries    int
	timeout    time.Duration
	rps        int

	config *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tooldef",
		Short: "Validate and convert create-tool requests for the agents API",
		Long: `tooldef works with the request body used to create a tool on an agent.

It validates tool definitions written as JSON or YAML, prints the JSON Schema
of the wire format, checks the binding against an OpenAPI definition of the
API, and converts MCP tool listings into create-tool requests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(a.configPath)
			if err != nil {
				return err
			}
			a.config = cfg

			a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			if a.verbose {
				a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}
			a.logger.Debug("loaded config", "path", a.configPath, "unrecognizedKeys", cfg.UnrecognizedKeys)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().IntVar(&a.retries, "retries", 3, "Maximum number of retries when downloading a definition")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 60*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().IntVarP(&a.rps, "rps", "r", 0, "Maximum requests per second when downloading a definition (0 for no limit)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)

	rootCmd.AddCommand(
		newValidateCmd(a),
		newSchemaCmd(a),
		newCheckCmd(a),
		newImportMCPCmd(a),
	)
	return rootCmd
}

// readInput reads a named file, or stdin for "-"
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return data, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cli implements vocctl, the operator command line for the VOC
// analyzer. Every command builds the same dependency graph as the API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"voc-backend/internal/bootstrap"
	"voc-backend/internal/shared/config"
	"voc-backend/internal/shared/storage/db"
)

type buildFunc func(ctx context.Context, cfg config.Config, opts bootstrap.Options) (*bootstrap.App, error)

type app struct {
	loadConfig func() config.Config
	build      buildFunc
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// NewRootCommand returns the vocctl command wired to the process environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{
		loadConfig: config.Load,
		build:      bootstrap.Build,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vocctl",
		Short:         "Operate the VOC analyzer knowledge store",
		Long:          "vocctl seeds and resets the log vector store, reports its status, and runs one-off analyses.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newResetCmd(a))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newAnalyzeCmd(a))
	cmd.AddCommand(newTokenCmd(a))
	return cmd
}

// open builds the app and initializes the analysis service.
func (a *app) open(ctx context.Context) (*bootstrap.App, error) {
	cfg := a.loadConfig()
	if err := bootstrap.ConfigureLogging(cfg); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	dbOpts := db.DefaultCLIOptions()
	built, err := a.build(ctx, cfg, bootstrap.Options{DBOptions: &dbOpts})
	if err != nil {
		return nil, err
	}
	if err := built.AnalysisService.Initialize(ctx); err != nil {
		built.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return built, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show vector store and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			built, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer built.Close()
			return a.printJSON(built.Health.Status(cmd.Context()))
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every document from the vector store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			built, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer built.Close()
			if err := built.Gateway.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(a.stdout, "vector store reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

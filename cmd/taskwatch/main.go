// Package main implements taskwatch, a client that tracks tasks on a remote
// task server. It either serves a small control API (serve) or follows tasks
// in the terminal until they finish (watch).
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/taskwatch/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskwatch",
		Short: "Track tasks on a remote task server",
		Long: `taskwatch creates tasks on a remote task server and polls each one
until it reaches a terminal status, then fetches its result once.

Configuration is read from ./taskwatch.yaml (or --config), TASKWATCH_*
environment variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newServeCommand(), newWatchCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func newWatchCommand() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Create or adopt tasks and print their progress until they finish",
		Example: `  taskwatch watch --create 3
  taskwatch watch --adopt --status RUNNING`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.create < 0 {
				return fmt.Errorf("--create must not be negative, got %d", opts.create)
			}
			if opts.create == 0 && !opts.adopt {
				return fmt.Errorf("nothing to watch: pass --create N or --adopt")
			}
			cfg, err := config.LoadWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runWatch(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.create, "create", "n", 0, "number of new tasks to create")
	cmd.Flags().BoolVar(&opts.adopt, "adopt", false, "also track tasks that already exist on the server")
	cmd.Flags().StringVar(&opts.status, "status", "", "only adopt tasks with this status")
	return cmd
}

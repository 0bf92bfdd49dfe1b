// Package cmd provides the agentstore CLI.
//
// Commands:
//   - get/put/ls: file operations through the managed storage handle
//   - agents: discover and report agent manifests
//   - version: build information
//
// All commands run under a signal-cancelled context so an interrupt aborts
// in-flight storage calls cleanly.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rboyd0/agentstore/internal/config"
	"github.com/rboyd0/agentstore/internal/log"
	"github.com/rboyd0/agentstore/internal/storage"
)

// app carries the shared dependencies built once in the root command's
// PersistentPreRunE and borrowed by every subcommand.
type app struct {
	cfg     *config.Config
	logger  log.Logger
	manager *storage.Manager

	// Flag values, applied over the loaded config.
	forceCloud bool
	localRoot  string
}

// Execute is the main entry point for the agentstore CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "agentstore",
		Short: "Storage and manifest tooling for the agent host",
		Long: `agentstore manages the shared storage layer agent plugins read and
write through: cloud storage when available, a local directory otherwise,
with credential refresh handled by the storage manager.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().BoolVar(&a.forceCloud, "force-cloud", false,
		"attempt cloud storage even without account configuration")
	root.PersistentFlags().StringVar(&a.localRoot, "local-root", "",
		"override the local storage root directory")

	root.AddCommand(
		newGetCmd(a),
		newPutCmd(a),
		newLsCmd(a),
		newAgentsCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration, applies flag overrides and builds the shared
// storage manager.
func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.forceCloud {
		cfg.ForceCloud = true
	}
	if a.localRoot != "" {
		cfg.LocalRoot = a.localRoot
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log.New(log.Config{Level: level})
	a.manager = storage.NewManager(cfg, a.logger.With("component", "storage"))
	return nil
}

/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/logging"
)

const (
	name           = "guestctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared by multiple commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (json, yaml, table)",
		Sources: cli.EnvVars("GUESTCTL_FORMAT"),
		Value:   "yaml",
	}

	transportFlag = &cli.StringFlag{
		Name:    "transport",
		Usage:   "How commands reach cluster nodes (ssh or local)",
		Sources: cli.EnvVars("GUESTCTL_TRANSPORT"),
		Value:   "ssh",
	}

	sshUserFlag = &cli.StringFlag{
		Name:    "ssh-user",
		Usage:   "SSH user for node access",
		Sources: cli.EnvVars("GUESTCTL_SSH_USER"),
		Value:   "root",
	}

	sshKeyFlag = &cli.StringFlag{
		Name:    "ssh-key",
		Usage:   "Path to the SSH private key for node access",
		Sources: cli.EnvVars("GUESTCTL_SSH_KEY"),
		Value:   "/root/.ssh/id_rsa",
	}

	sshPortFlag = &cli.StringFlag{
		Name:    "ssh-port",
		Usage:   "SSH port on cluster nodes",
		Sources: cli.EnvVars("GUESTCTL_SSH_PORT"),
		Value:   "22",
	}
)

// New assembles the guestctl command tree.
func New() *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Proxmox VE cluster guest support tools",
		Description: fmt.Sprintf(`guestctl - Proxmox VE cluster guest support tools

Version: %s
Commit:  %s
Built:   %s

Locates VMs and containers across the cluster, dispatches commands to the
node hosting a guest, and snapshots, restores, and compares guest
configuration state.`, version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("GUESTCTL_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			nodesCmd(),
			locateCmd(),
			runCmd(),
			snapshotCmd(),
			restoreCmd(),
			compareCmd(),
			archiveCmd(),
		},
	}
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := New().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/cluster"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/pve"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/serializer"
)

// toolkit bundles the wired collaborators most commands need: the node
// directory, the guest locator, and a client whose runner can reach any
// cluster node.
type toolkit struct {
	directory *cluster.Directory
	locator   *guest.Locator
	exec      *pve.Client
	runner    pve.Runner
}

// queryClient returns a client for cluster-wide listings, which always run
// through the local Proxmox tools.
func queryClient() (*pve.Client, error) {
	return pve.NewClient(pve.Config{Runner: &pve.LocalRunner{}})
}

// buildToolkit wires the collaborators for commands that execute on cluster
// nodes. The transport flag selects how node commands travel: over SSH using
// the discovered node addresses, or through the local shell for single-node
// clusters and tests.
func buildToolkit(ctx context.Context, cmd *cli.Command) (*toolkit, error) {
	client, err := queryClient()
	if err != nil {
		return nil, err
	}

	dctx, cancel := context.WithTimeout(ctx, defaults.DiscoveryTimeout)
	dir, err := cluster.Discover(dctx, client)
	cancel()
	if err != nil {
		return nil, err
	}

	runner, err := buildRunner(cmd, dir)
	if err != nil {
		return nil, err
	}

	exec, err := pve.NewClient(pve.Config{Runner: runner})
	if err != nil {
		return nil, err
	}

	return &toolkit{
		directory: dir,
		locator:   guest.NewLocator(client),
		exec:      exec,
		runner:    runner,
	}, nil
}

// buildRunner selects the node command transport from the command's flags.
// SSH resolves node names to addresses through the discovered directory.
func buildRunner(cmd *cli.Command, dir *cluster.Directory) (pve.Runner, error) {
	switch transport := cmd.String("transport"); transport {
	case "local":
		return &pve.LocalRunner{}, nil
	case "ssh":
		return pve.NewSSHRunner(pve.SSHConfig{
			User:     cmd.String("ssh-user"),
			KeyPath:  cmd.String("ssh-key"),
			Port:     cmd.String("ssh-port"),
			Resolver: dir.AddrOf,
		})
	default:
		return nil, fmt.Errorf("unknown transport: %q (want ssh or local)", transport)
	}
}

// outputWriter builds a serializer for the command's format and output
// flags, failing on unknown formats before any work happens.
func outputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q", format)
	}
	return serializer.NewFileWriterOrStdout(format, cmd.String("output")), nil
}

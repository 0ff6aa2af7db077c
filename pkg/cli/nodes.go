/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/cluster"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/header"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/pve"
	pveversion "github.com/proxmox-kit/cluster-guest-tools/pkg/version"
)

// nodeReport is the nodes command output: the discovered directory, manager
// versions, and local service health when requested.
type nodeReport struct {
	header.Header `yaml:",inline"`

	Nodes          []cluster.Node          `json:"nodes" yaml:"nodes"`
	ManagerVersion string                  `json:"managerVersion,omitempty" yaml:"managerVersion,omitempty"`
	Versions       []nodeVersion           `json:"versions,omitempty" yaml:"versions,omitempty"`
	VersionSkew    bool                    `json:"versionSkew,omitempty" yaml:"versionSkew,omitempty"`
	Services       []cluster.ServiceStatus `json:"services,omitempty" yaml:"services,omitempty"`
}

// nodeVersion pairs a node with the pve-manager version it runs.
type nodeVersion struct {
	Node    string `json:"node" yaml:"node"`
	Version string `json:"version" yaml:"version"`
}

// newNodeReport starts a report for the given directory with its document
// header filled in.
func newNodeReport(nodes []cluster.Node) nodeReport {
	return nodeReport{
		Header: *header.New(
			header.WithKind(header.KindNodeDirectory),
			header.WithAPIVersion("v1"),
			header.WithMetadata("version", version),
		),
		Nodes: nodes,
	}
}

// versionSkew reports whether the given manager versions disagree.
func versionSkew(versions []pveversion.Version) bool {
	for i := 1; i < len(versions); i++ {
		if versions[i].Compare(versions[0]) != 0 {
			return true
		}
	}
	return false
}

func nodesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "nodes",
		EnableShellCompletion: true,
		Usage:                 "List cluster nodes",
		Description: `Discover the cluster members and print their names, addresses, and
online state. With --health, also inspect the local node's cluster
services (pve-cluster, corosync, pvedaemon, pveproxy) over systemd.
With --versions, query every online node for its pve-manager version
and flag skew between them.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "health",
				Usage: "Include local cluster service health",
			},
			&cli.BoolFlag{
				Name:  "versions",
				Usage: "Query every online node's pve-manager version and flag skew",
			},
			outputFlag,
			formatFlag,
			transportFlag,
			sshUserFlag,
			sshKeyFlag,
			sshPortFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			client, err := queryClient()
			if err != nil {
				return err
			}

			dctx, cancel := context.WithTimeout(ctx, defaults.DiscoveryTimeout)
			dir, err := cluster.Discover(dctx, client)
			cancel()
			if err != nil {
				return err
			}

			report := newNodeReport(dir.Nodes())
			if mv, err := client.ManagerVersion(ctx); err != nil {
				slog.Warn("unable to determine pve-manager version", "err", err.Error())
			} else {
				report.ManagerVersion = mv.String()
			}

			if cmd.Bool("versions") {
				versions, skew, err := collectVersions(ctx, cmd, dir)
				if err != nil {
					return err
				}
				report.Versions = versions
				report.VersionSkew = skew
			}

			if cmd.Bool("health") {
				checker := &cluster.HealthChecker{}
				services, err := checker.Check(ctx)
				if err != nil {
					return err
				}
				report.Services = services
			}

			return out.Serialize(ctx, report)
		},
	}
}

// collectVersions queries every online node for its pve-manager version over
// the command's transport. Nodes that fail the query are logged and skipped
// rather than failing the report.
func collectVersions(ctx context.Context, cmd *cli.Command, dir *cluster.Directory) ([]nodeVersion, bool, error) {
	runner, err := buildRunner(cmd, dir)
	if err != nil {
		return nil, false, err
	}
	exec, err := pve.NewClient(pve.Config{Runner: runner})
	if err != nil {
		return nil, false, err
	}

	var (
		reported []nodeVersion
		parsed   []pveversion.Version
	)
	for _, n := range dir.Nodes() {
		if !n.Online {
			continue
		}
		v, err := exec.NodeManagerVersion(ctx, n.Name)
		if err != nil {
			slog.Warn("unable to query node manager version", "node", n.Name, "err", err.Error())
			continue
		}
		reported = append(reported, nodeVersion{Node: n.Name, Version: v.String()})
		parsed = append(parsed, v)
	}
	return reported, versionSkew(parsed), nil
}

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/cluster"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/version"
)

const (
	clusterStatusCmd    = "pvesh get /cluster/status --output-format json"
	clusterResourcesCmd = "pvesh get /cluster/resources --type vm --output-format json"
	managerVersionCmd   = "pveversion"

	resourceTypeQEMU = "qemu"
	resourceTypeLXC  = "lxc"
)

// Config configures a Client.
type Config struct {
	// Runner executes the Proxmox CLI tools.
	Runner Runner
	// QueryNode is the node cluster-wide pvesh queries run on. Empty means
	// the runner's default target (the local node for LocalRunner).
	QueryNode string
	// Limiter throttles cluster queries. Defaults to the rate in the
	// defaults package when nil.
	Limiter *rate.Limiter
}

// Client answers node-directory and guest-locator queries and executes
// per-guest config operations by invoking the Proxmox CLI tools (pvesh, qm,
// pct) through a Runner. It implements cluster.NodeSource and guest.Queries.
type Client struct {
	runner    Runner
	queryNode string
	limiter   *rate.Limiter
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("client requires a runner")
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(defaults.QueriesPerSecond), defaults.QueryBurst)
	}
	return &Client{
		runner:    cfg.Runner,
		queryNode: cfg.QueryNode,
		limiter:   limiter,
	}, nil
}

// clusterStatusEntry is one element of the pvesh /cluster/status listing.
// The listing mixes cluster and node entries, discriminated by type.
type clusterStatusEntry struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	IP     string `json:"ip"`
	Online int    `json:"online"`
}

// clusterResourceEntry is one element of the pvesh /cluster/resources
// listing filtered to guests.
type clusterResourceEntry struct {
	VMID int    `json:"vmid"`
	Type string `json:"type"`
	Node string `json:"node"`
}

// ClusterNodes queries the live cluster membership. It satisfies
// cluster.NodeSource.
func (c *Client) ClusterNodes(ctx context.Context) ([]cluster.Node, error) {
	out, err := c.query(ctx, clusterStatusCmd)
	if err != nil {
		return nil, err
	}

	var entries []clusterStatusEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		return nil, fmt.Errorf("unable to parse cluster status output: %w", err)
	}

	var nodes []cluster.Node
	for _, e := range entries {
		if e.Type != "node" {
			continue
		}
		nodes = append(nodes, cluster.Node{
			Name:   e.Name,
			Addr:   e.IP,
			Online: e.Online == 1,
		})
	}
	return nodes, nil
}

// VMExists reports whether a QEMU VM with the given ID exists in the cluster.
func (c *Client) VMExists(ctx context.Context, id int) (bool, error) {
	e, err := c.findResource(ctx, id)
	if err != nil {
		return false, err
	}
	return e != nil && e.Type == resourceTypeQEMU, nil
}

// CTExists reports whether an LXC container with the given ID exists in the
// cluster.
func (c *Client) CTExists(ctx context.Context, id int) (bool, error) {
	e, err := c.findResource(ctx, id)
	if err != nil {
		return false, err
	}
	return e != nil && e.Type == resourceTypeLXC, nil
}

// ResourceNode returns the name of the node currently hosting the guest.
func (c *Client) ResourceNode(ctx context.Context, kind guest.Kind, id int) (string, error) {
	e, err := c.findResource(ctx, id)
	if err != nil {
		return "", err
	}
	if e == nil || e.Type != resourceType(kind) {
		return "", fmt.Errorf("no %s with ID %d in cluster resources", kind, id)
	}
	return e.Node, nil
}

// DumpConfig returns the verbatim config listing of the located guest, as
// printed by the guest tool's config subcommand on the owning node.
func (c *Client) DumpConfig(ctx context.Context, loc *guest.Location) (string, error) {
	cmd := fmt.Sprintf("%s config %d", loc.Kind.Tool(), loc.ID)
	res, err := c.run(ctx, loc.Node, cmd, defaults.ConfigDumpTimeout)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", errors.NewWithContext(
			errors.ErrCodeRemoteCommandFailed,
			"config dump command failed",
			map[string]any{"guest": loc.String(), "exit_status": res.ExitCode},
		)
	}
	return res.Output, nil
}

// ApplyConfig sets one config key on the located guest via the guest tool's
// set subcommand on the owning node.
func (c *Client) ApplyConfig(ctx context.Context, loc *guest.Location, key, value string) error {
	cmd := fmt.Sprintf("%s set %d --%s %s", loc.Kind.Tool(), loc.ID, key, shellQuote(value))
	res, err := c.run(ctx, loc.Node, cmd, defaults.ConfigApplyTimeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errors.NewWithContext(
			errors.ErrCodeRemoteCommandFailed,
			"config apply command failed",
			map[string]any{"guest": loc.String(), "key": key, "exit_status": res.ExitCode},
		)
	}
	return nil
}

// ManagerVersion reports the pve-manager version running on the query node.
func (c *Client) ManagerVersion(ctx context.Context) (version.Version, error) {
	return c.NodeManagerVersion(ctx, c.queryNode)
}

// NodeManagerVersion reports the pve-manager version running on the named
// node. Comparing the results across nodes exposes version skew before bulk
// operations.
func (c *Client) NodeManagerVersion(ctx context.Context, node string) (version.Version, error) {
	res, err := c.run(ctx, node, managerVersionCmd, defaults.QueryTimeout)
	if err != nil {
		return version.Version{}, err
	}
	if res.ExitCode != 0 {
		return version.Version{}, fmt.Errorf("version query exited with status %d", res.ExitCode)
	}
	return version.ParseManager(strings.TrimSpace(res.Output))
}

// findResource scans the cluster-wide guest resource listing for the given
// ID. A nil entry with nil error means the ID is absent.
func (c *Client) findResource(ctx context.Context, id int) (*clusterResourceEntry, error) {
	out, err := c.query(ctx, clusterResourcesCmd)
	if err != nil {
		return nil, err
	}

	var entries []clusterResourceEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		return nil, fmt.Errorf("unable to parse cluster resources output: %w", err)
	}

	for i := range entries {
		if entries[i].VMID == id {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// query runs a pvesh listing command on the query node and returns its
// output. Non-zero exits are errors here: a failed listing means the cluster
// state is unknown.
func (c *Client) query(ctx context.Context, cmd string) (string, error) {
	res, err := c.run(ctx, c.queryNode, cmd, defaults.QueryTimeout)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("cluster query exited with status %d", res.ExitCode)
	}
	return res.Output, nil
}

func (c *Client) run(ctx context.Context, node, cmd string, timeout time.Duration) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("running pve command", "node", node, "command", cmd)
	return c.runner.Run(ctx, node, cmd)
}

func resourceType(kind guest.Kind) string {
	if kind == guest.KindCT {
		return resourceTypeLXC
	}
	return resourceTypeQEMU
}

// shellQuote wraps a value in single quotes so it survives the remote shell
// intact. Embedded single quotes are closed, escaped, and reopened.
func shellQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

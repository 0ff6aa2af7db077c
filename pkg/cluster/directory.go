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

package cluster

import (
	"context"
	"log/slog"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
)

// Node identifies one cluster member: a name and an IPv4 address, each
// unique within the cluster.
type Node struct {
	Name   string `json:"name" yaml:"name"`
	Addr   string `json:"addr" yaml:"addr"`
	Online bool   `json:"online" yaml:"online"`
}

// NodeSource is the collaborator interface that supplies the live cluster
// node listing. This interface enables dependency injection for testing.
type NodeSource interface {
	ClusterNodes(ctx context.Context) ([]Node, error)
}

// Directory is a bidirectional name↔address mapping over the cluster nodes.
// It is built once per invocation from a live cluster query and is immutable
// afterwards; both lookup directions are O(1).
type Directory struct {
	nodes  []Node
	byName map[string]Node
	byAddr map[string]Node
}

// Discover queries the live cluster-node listing once and builds the
// directory. It fails with CLUSTER_UNAVAILABLE if the query fails or returns
// no nodes; callers must treat that as fatal for any operation requiring
// node resolution.
func Discover(ctx context.Context, src NodeSource) (*Directory, error) {
	nodes, err := src.ClusterNodes(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeClusterUnavailable, "cluster status query failed", err)
	}
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeClusterUnavailable, "cluster status query returned no nodes")
	}

	d := &Directory{
		nodes:  nodes,
		byName: make(map[string]Node, len(nodes)),
		byAddr: make(map[string]Node, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := d.byName[n.Name]; dup {
			slog.Warn("duplicate node name in cluster status", "name", n.Name)
		}
		d.byName[n.Name] = n
		if n.Addr != "" {
			d.byAddr[n.Addr] = n
		}
	}

	slog.Debug("discovered cluster nodes", "count", len(nodes))
	return d, nil
}

// Nodes returns all discovered nodes in cluster-listing order.
func (d *Directory) Nodes() []Node {
	return d.nodes
}

// Len returns the number of discovered nodes.
func (d *Directory) Len() int {
	return len(d.nodes)
}

// ByName returns the node with the given name.
func (d *Directory) ByName(name string) (Node, bool) {
	n, ok := d.byName[name]
	return n, ok
}

// ByAddr returns the node with the given address.
func (d *Directory) ByAddr(addr string) (Node, bool) {
	n, ok := d.byAddr[addr]
	return n, ok
}

// AddrOf resolves a node name to its address. It fails with
// CLUSTER_UNAVAILABLE if the name is not in the directory, since dispatching
// to an unresolvable node cannot proceed.
func (d *Directory) AddrOf(name string) (string, error) {
	n, ok := d.byName[name]
	if !ok {
		return "", errors.NewWithContext(
			errors.ErrCodeClusterUnavailable,
			"node is not a member of the cluster",
			map[string]any{"node": name},
		)
	}
	return n.Addr, nil
}

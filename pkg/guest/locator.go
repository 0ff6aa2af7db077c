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

package guest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
)

// Queries is the cluster-side collaborator interface consumed by the Locator.
// This interface enables dependency injection for testing.
type Queries interface {
	// VMExists reports whether a QEMU VM with the given ID exists anywhere
	// in the cluster.
	VMExists(ctx context.Context, id int) (bool, error)

	// CTExists reports whether an LXC container with the given ID exists
	// anywhere in the cluster.
	CTExists(ctx context.Context, id int) (bool, error)

	// ResourceNode returns the name of the node currently hosting the guest
	// of the given kind and ID.
	ResourceNode(ctx context.Context, kind Kind, id int) (string, error)
}

// Locator resolves guest IDs to their kind and owning node.
// It performs no caching: every Locate call reflects live cluster state.
type Locator struct {
	queries Queries
}

// NewLocator creates a Locator backed by the given cluster queries.
func NewLocator(q Queries) *Locator {
	return &Locator{queries: q}
}

// Exists reports whether a guest of the given kind and ID is present in the
// cluster. The query is scoped to the kind: a CT with the same ID does not
// satisfy an existence check for a VM.
func (l *Locator) Exists(ctx context.Context, kind Kind, id int) (bool, error) {
	switch kind {
	case KindVM:
		return l.queries.VMExists(ctx, id)
	case KindCT:
		return l.queries.CTExists(ctx, id)
	default:
		return false, fmt.Errorf("unknown guest kind: %q", kind)
	}
}

// Locate determines the kind of the guest with the given ID and the node
// currently hosting it. VM existence is checked before CT existence in a
// fixed order; if both would match, VM wins. If neither matches, Locate
// fails with NOT_FOUND.
func (l *Locator) Locate(ctx context.Context, id int) (*Location, error) {
	kind, err := l.detect(ctx, id)
	if err != nil {
		return nil, err
	}

	node, err := l.queries.ResourceNode(ctx, kind, id)
	if err != nil {
		return nil, errors.WrapWithContext(
			errors.ErrCodeClusterUnavailable,
			"node ownership query failed",
			err,
			map[string]any{"id": id, "kind": kind.String()},
		)
	}

	loc := &Location{ID: id, Kind: kind, Node: node}
	slog.Debug("located guest", "id", id, "kind", kind.String(), "node", node)
	return loc, nil
}

// LocateRaw validates a raw identifier and locates the guest it names.
// Invalid identifiers fail before any cluster query is issued.
func (l *Locator) LocateRaw(ctx context.Context, raw string) (*Location, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return l.Locate(ctx, id)
}

// detect resolves the guest kind, checking the VM namespace first.
func (l *Locator) detect(ctx context.Context, id int) (Kind, error) {
	isVM, err := l.queries.VMExists(ctx, id)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeClusterUnavailable, "VM existence query failed", err)
	}
	if isVM {
		return KindVM, nil
	}

	isCT, err := l.queries.CTExists(ctx, id)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeClusterUnavailable, "CT existence query failed", err)
	}
	if isCT {
		return KindCT, nil
	}

	return "", errors.NewWithContext(
		errors.ErrCodeNotFound,
		"no VM or CT with this ID exists in the cluster",
		map[string]any{"id": id},
	)
}

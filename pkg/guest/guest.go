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
	"fmt"
	"strconv"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
)

// Kind is a tagged variant identifying the guest type. A guest ID resolves
// to exactly one kind; the kind is detected once at locate time and threaded
// through all downstream calls.
type Kind string

const (
	// KindVM is a QEMU virtual machine managed by qm.
	KindVM Kind = "vm"
	// KindCT is an LXC container managed by pct.
	KindCT Kind = "ct"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindVM, KindCT:
		return true
	default:
		return false
	}
}

// Placeholder returns the command-template token substituted for this kind:
// {vmid} for VMs, {ctid} for containers. Unrecognized tokens in a template
// are left untouched.
func (k Kind) Placeholder() string {
	if k == KindCT {
		return "{ctid}"
	}
	return "{vmid}"
}

// Tool returns the Proxmox management command for this kind (qm or pct).
func (k Kind) Tool() string {
	if k == KindCT {
		return "pct"
	}
	return "qm"
}

// Location is the result of resolving a guest ID: its detected kind and the
// name of the cluster node that currently hosts it. A Location is a point in
// time answer; live migration can move the guest between calls, so locations
// are never cached.
type Location struct {
	ID   int    `json:"id" yaml:"id"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Node string `json:"node" yaml:"node"`
}

// String returns a human-readable representation of the Location.
func (l Location) String() string {
	return fmt.Sprintf("%s/%d on %s", l.Kind, l.ID, l.Node)
}

// ParseID validates and parses a guest identifier. Identifiers are decimal
// positive integers; any other form fails with INVALID_IDENTIFIER before any
// cluster query is issued, so malformed input never reaches cluster tooling.
func ParseID(raw string) (int, error) {
	id, err := strconv.ParseUint(raw, 10, 31)
	if err != nil || id == 0 {
		return 0, errors.NewWithContext(
			errors.ErrCodeInvalidIdentifier,
			"guest ID must be a positive decimal integer",
			map[string]any{"id": raw},
		)
	}
	return int(id), nil
}

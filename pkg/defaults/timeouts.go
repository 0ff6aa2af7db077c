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

package defaults

import "time"

// Cluster query timeouts.
const (
	// QueryTimeout is the default timeout for a single cluster query
	// (node listing, guest listing, ownership lookup).
	QueryTimeout = 10 * time.Second

	// DiscoveryTimeout is the timeout for building the node directory.
	DiscoveryTimeout = 15 * time.Second
)

// Remote execution timeouts.
const (
	// SSHDialTimeout is the timeout for establishing an SSH connection
	// to a cluster node.
	SSHDialTimeout = 10 * time.Second

	// DispatchTimeout is the default timeout for a dispatched guest command.
	// Destructive operations (destroy, migrate) can run long.
	DispatchTimeout = 5 * time.Minute
)

// State engine timeouts.
const (
	// ConfigDumpTimeout is the timeout for dumping a guest configuration.
	ConfigDumpTimeout = 30 * time.Second

	// ConfigApplyTimeout is the timeout for applying a single configuration
	// key during restore.
	ConfigApplyTimeout = 30 * time.Second
)

// Query rate limiting defaults for bulk operations.
const (
	// QueriesPerSecond caps the rate of cluster tooling invocations.
	QueriesPerSecond = 10

	// QueryBurst is the token bucket burst size for cluster queries.
	QueryBurst = 5
)

// ArchivePushTimeout is the timeout for pushing a state archive to an
// OCI registry.
const ArchivePushTimeout = 2 * time.Minute

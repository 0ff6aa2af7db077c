/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the guestctl command tree: cluster node discovery,
// guest location, remote command dispatch, and state document snapshot,
// restore, compare, and archive operations.
package cli

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

// Package dispatch routes command templates to the cluster node hosting a
// guest. Templates carry kind-specific placeholders, {vmid} for VMs and
// {ctid} for containers; every occurrence is replaced with the guest's
// numeric ID before execution. A template with no placeholder is still run
// as-is on the owning node.
//
// The dispatcher never retries and never interprets remote output. A
// non-zero remote exit status is surfaced as a REMOTE_COMMAND_FAILED error
// alongside whatever output the command produced.
package dispatch

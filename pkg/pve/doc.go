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

// Package pve bridges the tool's domain packages to a live Proxmox VE
// cluster. It provides Runner implementations that execute commands locally
// or over SSH, and a Client that answers the directory and locator queries
// by parsing the output of pvesh, qm, and pct.
//
// Everything above this package (cluster, guest, dispatch, state) depends
// only on small collaborator interfaces; this package is the single place
// that knows the concrete Proxmox command lines and their output formats.
package pve

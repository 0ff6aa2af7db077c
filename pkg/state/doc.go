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

// Package state snapshots guest configuration into plain-text state
// documents, restores documents onto guests, and compares documents.
//
// A state document is the verbatim "key: value" output of the guest config
// tool at a point in time. Comparison is deliberately textual and line-order
// sensitive rather than a structured key diff: the document is the record,
// and two documents with the same keys in a different order are not equal.
// Restore is best-effort: every entry is applied independently and failures
// are collected rather than aborting the remaining keys.
package state

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

package state

import (
	"fmt"
	"strings"
)

// Entry is one configuration key/value pair from a guest config document.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ParseDocument parses the "key: value" line format emitted by the guest
// config tools. Blank lines and comment lines are skipped; entry order is
// preserved. Section markers (snapshot sections in square brackets) end the
// current-config portion of the document: everything after the first marker
// belongs to a point-in-time snapshot, not the live config, and is ignored.
func ParseDocument(content string) ([]Entry, error) {
	var entries []Entry
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			break
		}

		key, value, found := strings.Cut(trimmed, ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("malformed config line %d: %q", i+1, line)
		}
		entries = append(entries, Entry{Key: key, Value: strings.TrimSpace(value)})
	}
	return entries, nil
}

// Normalize canonicalizes a config document for comparison: trailing
// whitespace is stripped from every line, trailing blank lines are dropped,
// and the document ends with exactly one newline. Line order and interior
// blank lines are preserved, so reordered documents stay unequal.
func Normalize(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

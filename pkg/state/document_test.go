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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc := "memory: 2048\ncores: 4\n\n# pending changes below\nname: web\n"

	entries, err := ParseDocument(doc)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Key: "memory", Value: "2048"}, entries[0])
	assert.Equal(t, Entry{Key: "cores", Value: "4"}, entries[1])
	assert.Equal(t, Entry{Key: "name", Value: "web"}, entries[2])
}

func TestParseDocumentStopsAtSnapshotSection(t *testing.T) {
	doc := "memory: 2048\n[pre-upgrade]\nmemory: 1024\n"

	entries, err := ParseDocument(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2048", entries[0].Value)
}

func TestParseDocumentValueWithColons(t *testing.T) {
	doc := "scsi0: local-lvm:vm-100-disk-0,size=32G\n"

	entries, err := ParseDocument(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scsi0", entries[0].Key)
	assert.Equal(t, "local-lvm:vm-100-disk-0,size=32G", entries[0].Value)
}

func TestParseDocumentMalformedLine(t *testing.T) {
	_, err := ParseDocument("memory: 2048\nnot a config line\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseDocumentPreservesDuplicateKeys(t *testing.T) {
	entries, err := ParseDocument("net0: e1000\nnet0: virtio\n")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "memory: 2048\n", want: "memory: 2048\n"},
		{name: "trailing whitespace stripped", in: "memory: 2048  \t\n", want: "memory: 2048\n"},
		{name: "trailing blank lines dropped", in: "memory: 2048\n\n\n", want: "memory: 2048\n"},
		{name: "missing final newline added", in: "memory: 2048", want: "memory: 2048\n"},
		{name: "interior blank line kept", in: "a: 1\n\nb: 2\n", want: "a: 1\n\nb: 2\n"},
		{name: "empty document", in: "\n\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

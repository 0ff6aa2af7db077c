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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
)

type fakeLocator struct {
	locations map[string]*guest.Location
	lookups   int
}

func (l *fakeLocator) LocateRaw(_ context.Context, raw string) (*guest.Location, error) {
	l.lookups++
	if _, err := guest.ParseID(raw); err != nil {
		return nil, err
	}
	loc, ok := l.locations[raw]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no VM or CT with this ID exists in the cluster")
	}
	return loc, nil
}

// fakeStore serves a fixed config dump and records applies. Keys listed in
// failing reject the apply.
type fakeStore struct {
	dump    string
	applies []string
	failing map[string]bool
}

func (s *fakeStore) DumpConfig(_ context.Context, loc *guest.Location) (string, error) {
	if s.dump == "" {
		return "", fmt.Errorf("no config for %s", loc.String())
	}
	return s.dump, nil
}

func (s *fakeStore) ApplyConfig(_ context.Context, loc *guest.Location, key, value string) error {
	if s.failing[key] {
		return fmt.Errorf("cannot set %s on %s", key, loc.String())
	}
	s.applies = append(s.applies, key+"="+value)
	return nil
}

func newTestEngine(dump string) (*Engine, *fakeLocator, *fakeStore) {
	locator := &fakeLocator{locations: map[string]*guest.Location{
		"100": {ID: 100, Kind: guest.KindVM, Node: "pve1"},
	}}
	store := &fakeStore{dump: dump}
	return NewEngine(locator, store), locator, store
}

func TestSnapshot(t *testing.T) {
	e, _, _ := newTestEngine("memory: 2048\ncores: 4\n")
	path := filepath.Join(t.TempDir(), "vm100.state")

	loc, err := e.Snapshot(context.Background(), "100", path)
	require.NoError(t, err)
	assert.Equal(t, "vm/100 on pve1", loc.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "memory: 2048\ncores: 4\n", string(content), "document is written verbatim")
}

func TestSnapshotUnknownGuest(t *testing.T) {
	e, _, _ := newTestEngine("memory: 2048\n")

	_, err := e.Snapshot(context.Background(), "999", filepath.Join(t.TempDir(), "x.state"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestSnapshotWriteFailure(t *testing.T) {
	e, _, _ := newTestEngine("memory: 2048\n")

	_, err := e.Snapshot(context.Background(), "100", filepath.Join(t.TempDir(), "missing", "x.state"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSnapshotWriteFailed))
}

func TestSnapshotCompareRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine("memory: 2048\ncores: 4\n")
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.state")
	pathB := filepath.Join(dir, "b.state")

	_, err := e.Snapshot(context.Background(), "100", pathA)
	require.NoError(t, err)
	_, err = e.Snapshot(context.Background(), "100", pathB)
	require.NoError(t, err)

	equal, err := e.Compare(pathA, pathB)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestRestore(t *testing.T) {
	e, _, store := newTestEngine("")
	path := filepath.Join(t.TempDir(), "vm100.state")
	require.NoError(t, os.WriteFile(path, []byte("memory: 2048\ncores: 4\n"), 0o600))

	report, err := e.Restore(context.Background(), "100", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"memory", "cores"}, report.Applied)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []string{"memory=2048", "cores=4"}, store.applies)
}

func TestRestoreMissingFile(t *testing.T) {
	e, locator, store := newTestEngine("")

	_, err := e.Restore(context.Background(), "100", filepath.Join(t.TempDir(), "absent.state"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateFileMissing))
	assert.Zero(t, locator.lookups, "missing file fails before any cluster query")
	assert.Empty(t, store.applies)
}

func TestRestoreBestEffort(t *testing.T) {
	e, _, store := newTestEngine("")
	store.failing = map[string]bool{"cores": true}
	path := filepath.Join(t.TempDir(), "vm100.state")
	require.NoError(t, os.WriteFile(path, []byte("memory: 2048\ncores: 4\nname: web\n"), 0o600))

	report, err := e.Restore(context.Background(), "100", path)
	require.Error(t, err, "apply failures surface after all keys are attempted")
	assert.Equal(t, []string{"memory", "name"}, report.Applied)
	assert.Equal(t, []string{"cores"}, report.Failed)
	assert.Equal(t, []string{"memory=2048", "name=web"}, store.applies)
}

func TestCompare(t *testing.T) {
	e, _, _ := newTestEngine("")
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.state")
	pathB := filepath.Join(dir, "b.state")
	pathC := filepath.Join(dir, "c.state")
	require.NoError(t, os.WriteFile(pathA, []byte("memory: 2048\ncores: 4\n"), 0o600))
	require.NoError(t, os.WriteFile(pathB, []byte("cores: 4\nmemory: 2048\n"), 0o600))
	require.NoError(t, os.WriteFile(pathC, []byte("memory: 2048  \ncores: 4\n\n\n"), 0o600))

	// Reflexive.
	equal, err := e.Compare(pathA, pathA)
	require.NoError(t, err)
	assert.True(t, equal)

	// Order-sensitive: same lines, different order, not equal.
	equal, err = e.Compare(pathA, pathB)
	require.NoError(t, err)
	assert.False(t, equal)

	// Symmetric.
	equal, err = e.Compare(pathB, pathA)
	require.NoError(t, err)
	assert.False(t, equal)

	// Trailing whitespace and blank lines do not break equality.
	equal, err = e.Compare(pathA, pathC)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestCompareMissingFile(t *testing.T) {
	e, _, _ := newTestEngine("")
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.state")
	require.NoError(t, os.WriteFile(pathA, []byte("memory: 2048\n"), 0o600))

	_, err := e.Compare(pathA, filepath.Join(dir, "absent.state"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateFileMissing))
}

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

package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/pve"
)

// fakeLocator resolves from a fixed table and counts lookups.
type fakeLocator struct {
	mu        sync.Mutex
	locations map[string]*guest.Location
	lookups   int
}

func (l *fakeLocator) LocateRaw(_ context.Context, raw string) (*guest.Location, error) {
	l.mu.Lock()
	l.lookups++
	l.mu.Unlock()

	id, err := guest.ParseID(raw)
	if err != nil {
		return nil, err
	}
	loc, ok := l.locations[raw]
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"no VM or CT with this ID exists in the cluster", map[string]any{"id": id})
	}
	return loc, nil
}

// recordingRunner records node|command pairs and returns a canned result.
type recordingRunner struct {
	mu       sync.Mutex
	commands []string
	result   *pve.Result
	err      error
}

func (r *recordingRunner) Run(_ context.Context, node, command string) (*pve.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, node+"|"+command)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &pve.Result{ExitCode: 0, Output: "ok\n"}, nil
}

func twoGuestLocator() *fakeLocator {
	return &fakeLocator{locations: map[string]*guest.Location{
		"100": {ID: 100, Kind: guest.KindVM, Node: "pve1"},
		"200": {ID: 200, Kind: guest.KindCT, Node: "pve2"},
	}}
}

func TestDispatchVM(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	res, err := d.Dispatch(context.Background(), "100", "qm set {vmid} --name vm-{vmid}")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "pve1|qm set 100 --name vm-100", runner.commands[0],
		"every placeholder occurrence must be substituted")
}

func TestDispatchCTPlaceholder(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	// A {vmid} placeholder in a CT template is left untouched.
	_, err := d.Dispatch(context.Background(), "200", "pct exec {ctid} -- hostname; echo {vmid}")
	require.NoError(t, err)
	assert.Equal(t, "pve2|pct exec 200 -- hostname; echo {vmid}", runner.commands[0])
}

func TestDispatchNoPlaceholder(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	_, err := d.Dispatch(context.Background(), "100", "uptime")
	require.NoError(t, err)
	assert.Equal(t, "pve1|uptime", runner.commands[0])
}

func TestDispatchInvalidID(t *testing.T) {
	runner := &recordingRunner{}
	locator := twoGuestLocator()
	d := NewDispatcher(locator, runner)

	_, err := d.Dispatch(context.Background(), "abc", "uptime")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidIdentifier))
	assert.Empty(t, runner.commands, "nothing may run for an invalid ID")
}

func TestDispatchUnknownGuest(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	_, err := d.Dispatch(context.Background(), "999", "uptime")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Empty(t, runner.commands)
}

func TestDispatchEmptyTemplate(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	_, err := d.Dispatch(context.Background(), "100", "   ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
	assert.Empty(t, runner.commands)
}

func TestDispatchNonZeroExit(t *testing.T) {
	runner := &recordingRunner{result: &pve.Result{ExitCode: 2, Output: "boom\n"}}
	d := NewDispatcher(twoGuestLocator(), runner)

	res, err := d.Dispatch(context.Background(), "100", "false")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRemoteCommandFailed))
	require.NotNil(t, res, "output must accompany the failure")
	assert.Equal(t, "boom\n", res.Output)
}

func TestDispatchTransportFailure(t *testing.T) {
	runner := &recordingRunner{err: context.DeadlineExceeded}
	d := NewDispatcher(twoGuestLocator(), runner)

	res, err := d.Dispatch(context.Background(), "100", "uptime")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRemoteCommandFailed))
	assert.Nil(t, res)
}

func TestDispatchAll(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(twoGuestLocator(), runner)

	outcomes := d.DispatchAll(context.Background(), []string{"100", "200", "999"}, "echo {vmid}{ctid}", 2)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "100", outcomes[0].RawID)
	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "pve1", outcomes[0].Location.Node)

	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, guest.KindCT, outcomes[1].Location.Kind)

	// Unknown guests fail their own slot without stopping the rest.
	require.Error(t, outcomes[2].Err)
	assert.True(t, errors.IsCode(outcomes[2].Err, errors.ErrCodeNotFound))

	assert.Len(t, runner.commands, 2)
}

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
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/pve"
)

// Locator resolves a raw guest identifier to its location in the cluster.
// This interface enables dependency injection for testing.
type Locator interface {
	LocateRaw(ctx context.Context, raw string) (*guest.Location, error)
}

// Dispatcher substitutes guest placeholders into command templates and runs
// the resulting commands on the node that owns each guest.
type Dispatcher struct {
	locator Locator
	runner  pve.Runner
}

// NewDispatcher creates a Dispatcher from a locator and a runner.
func NewDispatcher(locator Locator, runner pve.Runner) *Dispatcher {
	return &Dispatcher{locator: locator, runner: runner}
}

// Outcome is the per-guest result of a bulk dispatch. Exactly one of Result
// and Err is set; Location is set whenever the guest was resolved.
type Outcome struct {
	RawID    string
	Location *guest.Location
	Result   *pve.Result
	Err      error
}

// Dispatch locates the guest named by rawID, substitutes the kind-specific
// placeholder ({vmid} for VMs, {ctid} for containers) for every occurrence
// in the template, and runs the command on the owning node.
//
// The command's output is returned verbatim. A non-zero remote exit is
// reported as REMOTE_COMMAND_FAILED with the exit status attached; the
// command output collected so far still accompanies the error via the
// returned Result.
func (d *Dispatcher) Dispatch(ctx context.Context, rawID, template string) (*pve.Result, error) {
	_, res, err := d.dispatch(ctx, rawID, template)
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, rawID, template string) (*guest.Location, *pve.Result, error) {
	started := time.Now()

	loc, err := d.locator.LocateRaw(ctx, rawID)
	if err != nil {
		dispatchTotal.WithLabelValues(statusError).Inc()
		return nil, nil, err
	}

	command, err := render(loc, template)
	if err != nil {
		dispatchTotal.WithLabelValues(statusError).Inc()
		return loc, nil, err
	}
	if loc.Node == "" {
		dispatchTotal.WithLabelValues(statusError).Inc()
		return loc, nil, errors.NewWithContext(
			errors.ErrCodeInvalidArgument,
			"guest resolved to an empty node name",
			map[string]any{"guest": loc.String()},
		)
	}

	slog.Debug("dispatching command", "guest", loc.String(), "command", command)
	rctx, cancel := context.WithTimeout(ctx, defaults.DispatchTimeout)
	defer cancel()
	res, err := d.runner.Run(rctx, loc.Node, command)
	if err != nil {
		dispatchTotal.WithLabelValues(statusError).Inc()
		return loc, nil, errors.WrapWithContext(
			errors.ErrCodeRemoteCommandFailed,
			"command could not be executed on node",
			err,
			map[string]any{"guest": loc.String(), "node": loc.Node},
		)
	}

	dispatchDuration.Observe(time.Since(started).Seconds())
	if res.ExitCode != 0 {
		dispatchTotal.WithLabelValues(statusError).Inc()
		return loc, res, errors.NewWithContext(
			errors.ErrCodeRemoteCommandFailed,
			"command exited with non-zero status",
			map[string]any{"guest": loc.String(), "exit_status": res.ExitCode},
		)
	}

	dispatchTotal.WithLabelValues(statusSuccess).Inc()
	return loc, res, nil
}

// DispatchAll runs the template against every guest in rawIDs, at most
// concurrency guests at a time. Failures do not stop the remaining guests;
// each entry in the returned slice carries its own result or error, in the
// same order as rawIDs.
func (d *Dispatcher) DispatchAll(ctx context.Context, rawIDs []string, template string, concurrency int) []Outcome {
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]Outcome, len(rawIDs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rawID := range rawIDs {
		i, rawID := i, rawID
		g.Go(func() error {
			out := Outcome{RawID: rawID}
			out.Location, out.Result, out.Err = d.dispatch(ctx, rawID, template)
			outcomes[i] = out
			// Errors are collected per guest; never fail the group.
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// render substitutes the guest's placeholder for its numeric ID throughout
// the template. The template must be non-empty and may legitimately contain
// no placeholder at all.
func render(loc *guest.Location, template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", errors.New(errors.ErrCodeInvalidArgument, "command template must not be empty")
	}
	return strings.ReplaceAll(template, loc.Kind.Placeholder(), strconv.Itoa(loc.ID)), nil
}

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
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
)

// Locator resolves a raw guest identifier to its location in the cluster.
// This interface enables dependency injection for testing.
type Locator interface {
	LocateRaw(ctx context.Context, raw string) (*guest.Location, error)
}

// ConfigStore dumps and applies per-guest configuration on the owning node.
// This interface enables dependency injection for testing.
type ConfigStore interface {
	DumpConfig(ctx context.Context, loc *guest.Location) (string, error)
	ApplyConfig(ctx context.Context, loc *guest.Location, key, value string) error
}

// Engine captures guest configuration into state documents, restores such
// documents onto guests, and compares documents. It owns no files: callers
// supply every path, and the engine neither names nor deletes documents.
type Engine struct {
	locator Locator
	store   ConfigStore
}

// NewEngine creates an Engine from a locator and a config store.
func NewEngine(locator Locator, store ConfigStore) *Engine {
	return &Engine{locator: locator, store: store}
}

// RestoreReport summarizes one restore: which keys applied cleanly and which
// failed. Restore is best-effort: one failed key never stops the rest.
type RestoreReport struct {
	Guest   string   `json:"guest" yaml:"guest"`
	Applied []string `json:"applied" yaml:"applied"`
	Failed  []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Snapshot locates the guest, dumps its configuration on the owning node,
// and writes the raw document verbatim to path. The written bytes are
// exactly what the config tool printed.
func (e *Engine) Snapshot(ctx context.Context, rawID, path string) (*guest.Location, error) {
	started := time.Now()

	loc, err := e.locator.LocateRaw(ctx, rawID)
	if err != nil {
		return nil, err
	}

	doc, err := e.store.DumpConfig(ctx, loc)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		return nil, errors.WrapWithContext(
			errors.ErrCodeSnapshotWriteFailed,
			"unable to write state document",
			err,
			map[string]any{"guest": loc.String(), "path": path},
		)
	}

	snapshotDuration.Observe(time.Since(started).Seconds())
	slog.Debug("captured state document", "guest", loc.String(), "path", path)
	return loc, nil
}

// Restore applies every key/value entry of the state document at path to the
// guest named by rawID, which need not be the guest the document was
// captured from. The path is checked before any cluster query: a missing
// document fails with STATE_FILE_MISSING and zero apply calls.
//
// Entries are applied independently, best-effort. The report covers every
// entry; the returned error joins the individual apply failures and is nil
// only if all entries applied.
func (e *Engine) Restore(ctx context.Context, rawID, path string) (*RestoreReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(
			errors.ErrCodeStateFileMissing,
			"state document does not exist or is unreadable",
			err,
			map[string]any{"path": path},
		)
	}

	entries, err := ParseDocument(string(content))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, "unable to parse state document", err)
	}

	loc, err := e.locator.LocateRaw(ctx, rawID)
	if err != nil {
		return nil, err
	}

	report := &RestoreReport{Guest: loc.String()}
	var applyErrs []error
	for _, entry := range entries {
		if err := e.store.ApplyConfig(ctx, loc, entry.Key, entry.Value); err != nil {
			slog.Warn("config key apply failed",
				"guest", loc.String(), "key", entry.Key, "err", err.Error())
			report.Failed = append(report.Failed, entry.Key)
			applyErrs = append(applyErrs, err)
			restoreKeysTotal.WithLabelValues(statusError).Inc()
			continue
		}
		report.Applied = append(report.Applied, entry.Key)
		restoreKeysTotal.WithLabelValues(statusSuccess).Inc()
	}

	return report, stderrors.Join(applyErrs...)
}

// Compare reads the state documents at both paths, normalizes them, and
// reports whether the normalized text is byte-identical. The comparison is
// line-order sensitive: identical keys in a different order are not equal.
func (e *Engine) Compare(pathA, pathB string) (bool, error) {
	docA, err := readDocument(pathA)
	if err != nil {
		return false, err
	}
	docB, err := readDocument(pathB)
	if err != nil {
		return false, err
	}
	return Normalize(docA) == Normalize(docB), nil
}

func readDocument(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapWithContext(
			errors.ErrCodeStateFileMissing,
			"state document does not exist or is unreadable",
			err,
			map[string]any{"path": path},
		)
	}
	return string(content), nil
}

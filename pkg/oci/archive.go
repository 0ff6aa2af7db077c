/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/header"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/serializer"
)

// ManifestFile is the name of the archive manifest inside an archive
// directory.
const ManifestFile = "manifest.yaml"

// Manifest describes the contents of a state archive: a document header plus
// the names of the captured state documents.
type Manifest struct {
	header.Header `yaml:",inline"`

	// Documents lists the state document file names in the archive, in the
	// order they were added.
	Documents []string `yaml:"documents"`
}

// BuildArchive assembles a state archive directory from the given state
// document paths: each document is copied in under its base name and a
// manifest.yaml describing the archive is written alongside. The directory
// is created if needed.
func BuildArchive(dir string, statePaths []string, version string) (*Manifest, error) {
	if len(statePaths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "archive requires at least one state document")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("unable to create archive directory: %w", err)
	}

	m := &Manifest{}
	m.Init(header.KindStateArchive, "v1", version)

	for _, path := range statePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithContext(
				errors.ErrCodeStateFileMissing,
				"state document does not exist or is unreadable",
				err,
				map[string]any{"path": path},
			)
		}

		name := filepath.Base(path)
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o600); err != nil {
			return nil, fmt.Errorf("unable to copy state document into archive: %w", err)
		}
		m.Documents = append(m.Documents, name)
	}

	encoded, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("unable to encode archive manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), encoded, 0o600); err != nil {
		return nil, fmt.Errorf("unable to write archive manifest: %w", err)
	}

	return m, nil
}

// ReadManifest reads the manifest of an assembled archive directory back and
// validates that it actually describes a state archive.
func ReadManifest(dir string) (*Manifest, error) {
	m, err := serializer.FromFile[Manifest](filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read archive manifest: %w", err)
	}

	if m.Kind != header.KindStateArchive {
		return nil, errors.NewWithContext(
			errors.ErrCodeInvalidArgument,
			"directory does not contain a state archive",
			map[string]any{"dir": dir, "kind": m.Kind.String()},
		)
	}
	if len(m.Documents) == 0 {
		return nil, errors.NewWithContext(
			errors.ErrCodeInvalidArgument,
			"archive manifest lists no state documents",
			map[string]any{"dir": dir},
		)
	}

	return m, nil
}

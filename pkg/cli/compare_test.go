/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommandEqual(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.state")
	pathB := filepath.Join(dir, "b.state")
	outPath := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(pathA, []byte("memory: 2048\ncores: 4\n"), 0o600))
	require.NoError(t, os.WriteFile(pathB, []byte("memory: 2048\ncores: 4\n\n"), 0o600))

	cmd := compareCmd()
	err := cmd.Run(context.Background(), []string{"compare", "--format", "json", "--output", outPath, pathA, pathB})
	require.NoError(t, err)

	result, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(result), `"equal": true`)
}

func TestCompareCommandMissingFile(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.state")
	require.NoError(t, os.WriteFile(pathA, []byte("memory: 2048\n"), 0o600))

	cmd := compareCmd()
	err := cmd.Run(context.Background(), []string{"compare", pathA, filepath.Join(dir, "absent.state")})
	assert.Error(t, err)
}

func TestCompareCommandArgCount(t *testing.T) {
	cmd := compareCmd()
	err := cmd.Run(context.Background(), []string{"compare", "only-one"})
	assert.Error(t, err)
}

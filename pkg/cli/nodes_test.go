/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/cluster"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/header"
	pveversion "github.com/proxmox-kit/cluster-guest-tools/pkg/version"
)

func TestNewNodeReportHeader(t *testing.T) {
	nodes := []cluster.Node{
		{Name: "pve1", Addr: "192.168.20.21", Online: true},
		{Name: "pve2", Addr: "192.168.20.22", Online: true},
	}

	report := newNodeReport(nodes)

	assert.Equal(t, header.KindNodeDirectory, report.Kind)
	assert.Equal(t, "v1", report.APIVersion)
	assert.Equal(t, version, report.Metadata["version"])
	assert.Equal(t, nodes, report.Nodes)
}

func TestVersionSkew(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		want     bool
	}{
		{name: "empty", versions: nil, want: false},
		{name: "single", versions: []string{"8.2.4"}, want: false},
		{name: "uniform", versions: []string{"8.2.4", "8.2.4", "8.2.4"}, want: false},
		{name: "patch drift", versions: []string{"8.2.4", "8.2.2"}, want: true},
		{name: "major drift", versions: []string{"7.4.1", "8.2.4"}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			versions := make([]pveversion.Version, 0, len(tc.versions))
			for _, raw := range tc.versions {
				versions = append(versions, pveversion.MustParse(raw))
			}
			assert.Equal(t, tc.want, versionSkew(versions))
		})
	}
}

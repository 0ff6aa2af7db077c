package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultServices are the systemd units that make up a healthy Proxmox VE
// cluster member.
var DefaultServices = []string{
	"pve-cluster.service",
	"corosync.service",
	"pvedaemon.service",
	"pveproxy.service",
}

// ServiceStatus describes the state of one cluster service on the local node.
type ServiceStatus struct {
	Unit        string `json:"unit" yaml:"unit"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	ActiveState string `json:"activeState" yaml:"activeState"`
	SubState    string `json:"subState" yaml:"subState"`
	Healthy     bool   `json:"healthy" yaml:"healthy"`
}

// HealthChecker inspects cluster service units on the local node over the
// systemd D-Bus API.
type HealthChecker struct {
	// Services lists the units to inspect. Defaults to DefaultServices.
	Services []string
}

// Check queries systemd for the state of each configured unit.
// A unit is healthy when its active state is "active".
func (h *HealthChecker) Check(ctx context.Context) ([]ServiceStatus, error) {
	services := h.Services
	if len(services) == 0 {
		services = DefaultServices
	}

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, services)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	statuses := make([]ServiceStatus, 0, len(units))
	for _, u := range units {
		statuses = append(statuses, ServiceStatus{
			Unit:        u.Name,
			DisplayName: unitDisplayName(u.Name),
			ActiveState: u.ActiveState,
			SubState:    u.SubState,
			Healthy:     u.ActiveState == "active",
		})
	}

	return statuses, nil
}

// unitDisplayName converts a unit name like "pve-cluster.service" into a
// human-readable label like "Pve Cluster".
func unitDisplayName(unit string) string {
	base := strings.TrimSuffix(unit, ".service")
	titleCaser := cases.Title(language.English)

	parts := strings.Split(base, "-")
	for i, part := range parts {
		parts[i] = titleCaser.String(part)
	}
	return strings.Join(parts, " ")
}

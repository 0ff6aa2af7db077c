// Package cluster discovers the members of a Proxmox VE cluster and provides
// a bidirectional name↔address directory over them.
//
// The directory is rebuilt from a live cluster query on every invocation
// rather than cached: cluster membership rarely changes, but a stale address
// would silently route commands to the wrong machine.
//
// The package also reports the health of the local node's cluster services
// (pve-cluster, corosync, pvedaemon, pveproxy) over the systemd D-Bus API.
package cluster

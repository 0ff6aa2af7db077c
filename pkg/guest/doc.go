// Package guest resolves numeric guest identifiers to virtual machines or
// containers and the cluster node that currently hosts them.
//
// Identifiers share one namespace across both guest types: an ID must not
// resolve to both a VM and a CT. The Locator enforces a fixed detection
// order (VM first, then CT) so that, should the invariant ever be violated
// upstream, the VM interpretation is authoritative.
//
// Resolution is intentionally uncached. A guest can be live-migrated between
// invocations, so every Locate call queries the cluster for current
// ownership.
package guest

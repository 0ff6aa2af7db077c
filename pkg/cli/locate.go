/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/guest"
)

func locateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "locate",
		EnableShellCompletion: true,
		Usage:                 "Resolve a guest ID to its kind and owning node",
		ArgsUsage:             "<id>",
		Description: `Determine whether the given ID names a QEMU VM or an LXC container and
which node currently hosts it. IDs are decimal positive integers; the VM
namespace is checked before the CT namespace.

# Examples

  guestctl locate 100
  guestctl locate 200 --format json`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("locate requires exactly one guest ID")
			}

			out, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			client, err := queryClient()
			if err != nil {
				return err
			}

			loc, err := guest.NewLocator(client).LocateRaw(ctx, cmd.Args().First())
			if err != nil {
				return err
			}

			return out.Serialize(ctx, loc)
		},
	}
}

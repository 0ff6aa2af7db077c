/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/state"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture a guest's configuration into a state document",
		ArgsUsage:             "<id>",
		Description: `Locate the guest, dump its configuration on the owning node, and write
the raw "key: value" document verbatim to the given file. The file is
caller-owned: guestctl neither names nor deletes it.

# Examples

  guestctl snapshot 100 --file vm100.state
  guestctl snapshot 200 --file /var/backups/ct200.state`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"F"},
				Usage:    "Destination path for the state document",
				Required: true,
			},
			transportFlag,
			sshUserFlag,
			sshKeyFlag,
			sshPortFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("snapshot requires exactly one guest ID")
			}

			tk, err := buildToolkit(ctx, cmd)
			if err != nil {
				return err
			}

			engine := state.NewEngine(tk.locator, tk.exec)
			loc, err := engine.Snapshot(ctx, cmd.Args().First(), cmd.String("file"))
			if err != nil {
				return err
			}

			fmt.Printf("captured %s to %s\n", loc.String(), cmd.String("file"))
			return nil
		},
	}
}

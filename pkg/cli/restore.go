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

func restoreCmd() *cli.Command {
	return &cli.Command{
		Name:                  "restore",
		EnableShellCompletion: true,
		Usage:                 "Apply a state document to a guest",
		ArgsUsage:             "<id>",
		Description: `Read the state document and apply each "key: value" entry to the guest
on its owning node. The target guest need not be the one the document
was captured from. Entries are applied best-effort: a key that fails is
reported but does not stop the remaining keys.

# Examples

  guestctl restore 100 --file vm100.state
  guestctl restore 101 --file vm100.state --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"F"},
				Usage:    "Path of the state document to apply",
				Required: true,
			},
			transportFlag,
			sshUserFlag,
			sshKeyFlag,
			sshPortFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("restore requires exactly one guest ID")
			}

			out, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			tk, err := buildToolkit(ctx, cmd)
			if err != nil {
				return err
			}

			engine := state.NewEngine(tk.locator, tk.exec)
			report, applyErr := engine.Restore(ctx, cmd.Args().First(), cmd.String("file"))
			if report != nil {
				if err := out.Serialize(ctx, report); err != nil {
					return err
				}
			}
			if applyErr != nil {
				return fmt.Errorf("restore incomplete: %w", applyErr)
			}
			return nil
		},
	}
}

/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/dispatch"
)

// runOutcome is the per-guest row of a bulk run report.
type runOutcome struct {
	ID     string `json:"id" yaml:"id"`
	Guest  string `json:"guest,omitempty" yaml:"guest,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run a command on the node hosting each guest",
		ArgsUsage:             "<id> [<id>...]",
		Description: `Dispatch a command template to the node that hosts each named guest.
The template may contain {vmid} or {ctid} placeholders; the one matching
the guest's detected kind is replaced with its numeric ID at every
occurrence. Unrecognized placeholders pass through unchanged.

With one guest, the remote command's output is printed verbatim. With
several guests the commands run concurrently and a per-guest report is
emitted instead.

# Examples

  guestctl run 100 --command "qm set {vmid} --onboot 1"
  guestctl run 100 200 300 --command "qm suspend {vmid}" --concurrency 8`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "command",
				Aliases:  []string{"c"},
				Usage:    "Command template to run on each guest's node",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum guests dispatched at once",
				Value: 4,
			},
			transportFlag,
			sshUserFlag,
			sshKeyFlag,
			sshPortFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("run requires at least one guest ID")
			}

			tk, err := buildToolkit(ctx, cmd)
			if err != nil {
				return err
			}
			d := dispatch.NewDispatcher(tk.locator, tk.runner)

			if cmd.Args().Len() == 1 {
				res, err := d.Dispatch(ctx, cmd.Args().First(), cmd.String("command"))
				if res != nil && res.Output != "" {
					fmt.Print(res.Output)
				}
				return err
			}

			outcomes := d.DispatchAll(ctx, cmd.Args().Slice(), cmd.String("command"), int(cmd.Int("concurrency")))

			out, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			var failed int
			report := make([]runOutcome, 0, len(outcomes))
			for _, o := range outcomes {
				row := runOutcome{ID: o.RawID}
				if o.Location != nil {
					row.Guest = o.Location.String()
				}
				if o.Result != nil {
					row.Output = o.Result.Output
				}
				if o.Err != nil {
					row.Error = o.Err.Error()
					failed++
				}
				report = append(report, row)
			}

			if err := out.Serialize(ctx, report); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d guests failed", failed, len(outcomes))
			}
			return nil
		},
	}
}

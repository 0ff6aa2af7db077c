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

// compareResult is the compare command output.
type compareResult struct {
	PathA string `json:"pathA" yaml:"pathA"`
	PathB string `json:"pathB" yaml:"pathB"`
	Equal bool   `json:"equal" yaml:"equal"`
}

func compareCmd() *cli.Command {
	return &cli.Command{
		Name:                  "compare",
		EnableShellCompletion: true,
		Usage:                 "Compare two state documents",
		ArgsUsage:             "<pathA> <pathB>",
		Description: `Compare two state documents after normalization (trailing whitespace and
trailing blank lines stripped). The comparison is line-order sensitive:
the same keys in a different order are not equal.

Exits 0 when the documents are equal and 3 when they differ, so scripts
can branch on the result without parsing output.

# Examples

  guestctl compare before.state after.state
  guestctl compare a.state b.state --format json`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("compare requires exactly two state document paths")
			}
			pathA := cmd.Args().Get(0)
			pathB := cmd.Args().Get(1)

			out, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			// Compare needs no cluster access; the engine reads only files.
			equal, err := state.NewEngine(nil, nil).Compare(pathA, pathB)
			if err != nil {
				return err
			}

			result := compareResult{PathA: pathA, PathB: pathB, Equal: equal}
			if err := out.Serialize(ctx, result); err != nil {
				return err
			}
			if !equal {
				return cli.Exit("state documents differ", 3)
			}
			return nil
		},
	}
}

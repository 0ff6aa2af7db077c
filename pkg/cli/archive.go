/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
	"github.com/proxmox-kit/cluster-guest-tools/pkg/oci"
)

func archiveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "archive",
		EnableShellCompletion: true,
		Usage:                 "Bundle state documents into an archive",
		ArgsUsage:             "<state-file> [<state-file>...]",
		Description: `Assemble the given state documents into an archive directory with a
manifest describing its contents, and optionally push the archive to an
OCI registry.

The target is either a local directory or an OCI reference:

  guestctl archive vm100.state ct200.state --target ./archives/weekly
  guestctl archive vm100.state --target oci://ghcr.io/lab/guest-state:weekly

Registry credentials are read from the Docker credential store.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "target",
				Aliases:  []string{"t"},
				Usage:    "Archive target: a directory or an oci:// reference",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("archive requires at least one state document path")
			}

			ref, err := oci.ParseTarget(cmd.String("target"))
			if err != nil {
				return err
			}

			dir := ref.LocalPath
			if ref.IsOCI {
				tmp, err := os.MkdirTemp("", "guestctl-archive-*")
				if err != nil {
					return fmt.Errorf("unable to create staging directory: %w", err)
				}
				defer func() { _ = os.RemoveAll(tmp) }()
				dir = tmp
			}

			if _, err := oci.BuildArchive(dir, cmd.Args().Slice(), version); err != nil {
				return err
			}

			// Read the manifest back so a malformed archive never leaves
			// the staging directory or reaches a registry.
			manifest, err := oci.ReadManifest(dir)
			if err != nil {
				return err
			}
			slog.Info("archive assembled", "documents", len(manifest.Documents), "dir", dir)

			if !ref.IsOCI {
				fmt.Printf("archived %d state documents to %s\n", len(manifest.Documents), dir)
				return nil
			}

			if ref.Tag == "" {
				ref = ref.WithTag(version)
			}

			pctx, cancel := context.WithTimeout(ctx, defaults.ArchivePushTimeout)
			defer cancel()

			result, err := oci.Push(pctx, oci.PushOptions{
				SourceDir:   dir,
				Registry:    ref.Registry,
				Repository:  ref.Repository,
				Tag:         ref.Tag,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure"),
				Annotations: map[string]string{
					"org.opencontainers.image.version": version,
					"org.opencontainers.image.title":   "guestctl state archive",
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("pushed %s (%s)\n", result.Reference, result.Digest)
			return nil
		},
	}
}

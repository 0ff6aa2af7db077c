/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestOutputWriterFormats(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "json", format: "json"},
		{name: "yaml", format: "yaml"},
		{name: "table", format: "table"},
		{name: "unknown", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
					&cli.StringFlag{Name: "output"},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					w, err := outputWriter(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("outputWriter() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if w != nil {
						_ = w.Close()
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

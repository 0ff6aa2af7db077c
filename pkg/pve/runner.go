// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Result carries the exit status and captured standard output of a command
// executed on a cluster node. Output is returned unmodified.
type Result struct {
	ExitCode int
	Output   string
}

// Runner executes a shell command on a named cluster node. It is the single
// remote-execution primitive the toolkit depends on; implementations decide
// the transport (local shell, SSH).
//
// Run returns an error only for transport failures (cannot spawn, cannot
// connect). A command that runs and exits non-zero is not an error at this
// layer: the exit status is reported in Result and interpreted by callers.
type Runner interface {
	Run(ctx context.Context, node, command string) (*Result, error)
}

// LocalRunner executes commands on the local machine via the shell.
// It is used when guestctl itself runs on a cluster node: cluster queries
// and commands targeting the local node need no SSH hop.
type LocalRunner struct {
	// Shell is the shell binary used to interpret commands. Defaults to /bin/sh.
	Shell string
}

// Run executes the command locally. The node argument is accepted for
// interface compatibility and ignored.
func (r *LocalRunner) Run(ctx context.Context, node, command string) (*Result, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute command: %w", err)
		}
		slog.Debug("local command exited non-zero",
			"command", command,
			"exit_status", exitErr.ExitCode(),
			"stderr", stderr.String())
		return &Result{ExitCode: exitErr.ExitCode(), Output: stdout.String()}, nil
	}

	return &Result{ExitCode: 0, Output: stdout.String()}, nil
}

package pve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/defaults"
)

// AddrResolver maps a cluster node name to a dialable address.
// The node directory's AddrOf method satisfies this signature.
type AddrResolver func(node string) (string, error)

// SSHConfig configures an SSHRunner. All fields are explicit; nothing is
// read from ambient environment state.
type SSHConfig struct {
	// User is the SSH user on the cluster nodes (typically root).
	User string
	// KeyPath is the path to the private key used for authentication.
	KeyPath string
	// Port is the SSH port on the cluster nodes. Defaults to 22.
	Port string
	// Resolver maps node names to addresses.
	Resolver AddrResolver
	// HostKeyCallback verifies host keys. Defaults to
	// ssh.InsecureIgnoreHostKey, matching the trust model of intra-cluster
	// root SSH that the Proxmox tooling itself relies on.
	HostKeyCallback ssh.HostKeyCallback
}

// SSHRunner executes commands on cluster nodes over SSH, one session per
// command. Connections are not pooled: each invocation of guestctl is a
// short-lived process and a fresh session keeps failure modes simple.
type SSHRunner struct {
	user        string
	privateKey  []byte
	port        string
	resolve     AddrResolver
	hostKeyCall ssh.HostKeyCallback
}

// NewSSHRunner creates an SSHRunner, reading and validating the private key
// up front so authentication problems surface before any dispatch.
func NewSSHRunner(cfg SSHConfig) (*SSHRunner, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("ssh runner requires an address resolver")
	}

	key, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}
	if _, err := ssh.ParsePrivateKey(key); err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	user := cfg.User
	if user == "" {
		user = "root"
	}
	port := cfg.Port
	if port == "" {
		port = "22"
	}
	hostKeyCall := cfg.HostKeyCallback
	if hostKeyCall == nil {
		hostKeyCall = ssh.InsecureIgnoreHostKey() //nolint:gosec // intra-cluster trust model
	}

	return &SSHRunner{
		user:        user,
		privateKey:  key,
		port:        port,
		resolve:     cfg.Resolver,
		hostKeyCall: hostKeyCall,
	}, nil
}

// Run executes the command on the named node over SSH. The command's exit
// status is reported in the Result; only connection and session failures are
// returned as errors.
func (r *SSHRunner) Run(ctx context.Context, node, command string) (*Result, error) {
	addr, err := r.resolve(node)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve node %q: %w", node, err)
	}

	signer, err := ssh.ParsePrivateKey(r.privateKey)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: r.user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: r.hostKeyCall,
		Timeout:         defaults.SSHDialTimeout,
	}

	hostPort := net.JoinHostPort(addr, r.port)
	conn, err := ssh.Dial("tcp", hostPort, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", hostPort, err)
	}
	defer closeAndLog(conn.Close)

	session, err := conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("unable to create SSH session: %w", err)
	}
	defer closeAndLog(session.Close)

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	// Session.Run does not take a context; cancel the session if ctx ends
	// while the command is still running.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Signal(ssh.SIGKILL)
			_ = session.Close()
		case <-done:
		}
	}()

	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("remote command failed: %w", err)
		}
		slog.Debug("remote command exited non-zero",
			"node", node,
			"command", command,
			"exit_status", exitErr.ExitStatus(),
			"stderr", stderr.String())
		return &Result{ExitCode: exitErr.ExitStatus(), Output: stdout.String()}, nil
	}

	return &Result{ExitCode: 0, Output: stdout.String()}, nil
}

func closeAndLog(f func() error) {
	if err := f(); err != nil {
		slog.Debug("error closing ssh session or connection", "err", err.Error())
	}
}

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/mitchellh/go-homedir"
	sshagent "github.com/xanzy/ssh-agent"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	"github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

const defaultKnownHostsFile = "~/.ssh/known_hosts"

// SSHExecutor runs commands over SSH. Connections are opened on first use and
// reused for every later command on the same host until Close.
type SSHExecutor struct {
	// Stream, when set, receives command output as it is produced.
	Stream io.Writer

	settings        schema.SSHSettings
	clientConfig    *ssh_config.Config
	hostKeyCallback ssh.HostKeyCallback
	agent           agent.Agent
	agentConn       net.Conn

	mu      sync.Mutex
	clients map[string]*ssh.Client
}

// NewSSHExecutor prepares host key checking, the SSH agent and the client config.
// No connection is made until Run.
func NewSSHExecutor(settings schema.SSHSettings) (*SSHExecutor, error) {
	e := &SSHExecutor{
		settings: settings,
		clients:  make(map[string]*ssh.Client),
	}

	callback, err := hostKeyCallback(settings)
	if err != nil {
		return nil, err
	}
	e.hostKeyCallback = callback

	e.clientConfig, err = loadSSHConfig(settings.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("%w: ssh.config_file: %w", errUtils.ErrConfiguration, err)
	}

	if settings.UseAgent && sshagent.Available() {
		ag, conn, err := sshagent.New()
		if err != nil {
			logger.Warn("SSH agent is not usable", "err", err)
		} else {
			e.agent = ag
			e.agentConn = conn
		}
	}

	return e, nil
}

func hostKeyCallback(settings schema.SSHSettings) (ssh.HostKeyCallback, error) {
	if settings.InsecureIgnoreHostKey {
		logger.Warn("SSH host key checking is disabled")
		//nolint:gosec // explicitly requested in configuration
		return ssh.InsecureIgnoreHostKey(), nil
	}

	path := settings.KnownHostsFile
	if path == "" {
		path = defaultKnownHostsFile
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrHostKeyCallback, path, err)
	}

	callback, err := knownhosts.New(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrHostKeyCallback, expanded, err)
	}
	return callback, nil
}

func (e *SSHExecutor) Run(ctx context.Context, host schema.Server, cmd command.Spec) (*Result, error) {
	script := cmd.Render()
	start := time.Now()

	client, err := e.client(ctx, host)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		e.evict(host)
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSSHSession, host.Host, err)
	}
	defer session.Close()

	if e.settings.PTY {
		modes := ssh.TerminalModes{ssh.ECHO: 0}
		if err := session.RequestPty("xterm", 40, 80, modes); err != nil {
			return nil, fmt.Errorf("%w: %s: pty: %w", errUtils.ErrSSHSession, host.Host, err)
		}
	}

	out := newOutputBuffer(e.Stream)
	session.Stdout = out
	session.Stderr = out

	logger.Trace("Starting remote command", "host", host.Host, "command", script)
	if err := session.Start(script); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSSHSession, host.Host, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	result := &Result{Host: host.Host, Command: script}
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		result.Output = out.String()
		result.Duration = time.Since(start)
		return result, ctx.Err()
	}

	result.Output = out.String()
	result.Duration = time.Since(start)

	var exitErr *ssh.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitStatus()
	default:
		return result, fmt.Errorf("%w: %s: %w", errUtils.ErrSSHSession, host.Host, err)
	}
	return result, nil
}

func (e *SSHExecutor) client(ctx context.Context, host schema.Server) (*ssh.Client, error) {
	ep := resolveEndpoint(host, e.settings, e.clientConfig)
	key := ep.user + "@" + ep.addr()

	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[key]; ok {
		return c, nil
	}

	cfg, err := e.sshClientConfig(ep)
	if err != nil {
		return nil, err
	}

	logger.Debug("Connecting", "host", host.Host, "addr", ep.addr(), "user", ep.user)
	c, err := dial(ctx, ep.addr(), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSSHDial, host.Host, err)
	}
	e.clients[key] = c
	return c, nil
}

func (e *SSHExecutor) evict(host schema.Server) {
	ep := resolveEndpoint(host, e.settings, e.clientConfig)
	key := ep.user + "@" + ep.addr()

	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[key]; ok {
		_ = c.Close()
		delete(e.clients, key)
	}
}

func (e *SSHExecutor) sshClientConfig(ep endpoint) (*ssh.ClientConfig, error) {
	var identity ssh.Signer
	if ep.identityFile != "" {
		signer, err := loadSigner(ep.identityFile)
		if err != nil {
			if e.agent == nil {
				return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSSHAuth, ep.alias, err)
			}
			logger.Debug("Skipping identity file", "host", ep.alias, "path", ep.identityFile, "err", err)
		}
		identity = signer
	}

	if identity == nil && e.agent == nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrSSHAuth, ep.alias)
	}

	// Every key goes through one publickey method: the client tries each method name once.
	signers := func() ([]ssh.Signer, error) {
		var all []ssh.Signer
		if identity != nil {
			all = append(all, identity)
		}
		if e.agent != nil {
			agentSigners, err := e.agent.Signers()
			if err != nil {
				logger.Debug("SSH agent returned no keys", "err", err)
			}
			all = append(all, agentSigners...)
		}
		return all, nil
	}

	return &ssh.ClientConfig{
		User:            ep.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(signers)},
		HostKeyCallback: e.hostKeyCallback,
		Timeout:         e.settings.ConnectTimeout,
	}, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	pem, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(pem)
}

func dial(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// Close closes every open connection and the agent socket.
func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for key, c := range e.clients {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		delete(e.clients, key)
	}
	if e.agentConn != nil {
		errs = append(errs, e.agentConn.Close())
		e.agentConn = nil
	}
	return errors.Join(errs...)
}

// Package device talks to the appliance command line over SSH.
package device

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// Appliance CLI commands used by the save workflow.
const (
	ShowConfigCommand  = "config show"
	WriteConfigCommand = "config write"
)

const (
	defaultPort    = 22
	defaultTimeout = 30 * time.Second
)

// Options configures Dial.
type Options struct {
	Host     string
	Port     int // defaults to 22
	Username string
	Password string
	Timeout  time.Duration // connect timeout, defaults to 30s

	// HostKeyCallback verifies the server key. When nil the key is not
	// checked.
	HostKeyCallback ssh.HostKeyCallback
}

// Session is an SSH connection to one appliance. Each command runs in its
// own SSH channel, so a Session may be shared between goroutines.
type Session struct {
	host   string
	mu     sync.Mutex
	client *ssh.Client
}

// Dial connects and authenticates to the appliance.
func Dial(ctx context.Context, opts Options) (*Session, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("dial: host is required")
	}
	port := opts.Port
	if port == 0 {
		port = defaultPort
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	hostKey := opts.HostKeyCallback
	if hostKey == nil {
		hostKey = ssh.InsecureIgnoreHostKey()
	}

	config := &ssh.ClientConfig{
		User: opts.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(opts.Password),
		},
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SSH handshake %s: %w", addr, err)
	}

	util.WithDevice(opts.Host).Debugf("connected as %s", opts.Username)
	return &Session{host: opts.Host, client: ssh.NewClient(c, chans, reqs)}, nil
}

// Host returns the appliance address the session was dialed with.
func (s *Session) Host() string {
	return s.host
}

// Exec runs cmd and returns its combined output. Cancelling ctx closes the
// channel and returns ctx.Err().
func (s *Session) Exec(ctx context.Context, cmd string) (string, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return "", util.ErrNotConnected
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(cmd)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return string(r.out), fmt.Errorf("SSH exec '%s': %w", cmd, r.err)
		}
		return string(r.out), nil
	}
}

// FetchConfig returns the full configuration dump.
func (s *Session) FetchConfig(ctx context.Context) (string, error) {
	out, err := s.Exec(ctx, ShowConfigCommand)
	if err != nil {
		return "", fmt.Errorf("fetch config from %s: %w", s.host, err)
	}
	util.WithDevice(s.host).Debugf("fetched %d bytes of configuration", len(out))
	return out, nil
}

// Close tears down the SSH connection. Closing twice is harmless.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// This file fetches word lists from sftp:// sources, for estates that
// distribute vetted lists internally. Host keys are verified against the
// known_hosts table; unknown or mismatched keys are fatal. Authentication
// uses the local SSH agent.
package wordlist

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/pkg/sftp"
	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/passphrase"
	"golang.org/x/crypto/ssh"
)

// knownHostKeyFunc looks up the pinned key for a hostname. Package-level so
// tests can inject a fake without a database.
var knownHostKeyFunc = db.GetKnownHostKey

// sftpReadCloser bundles the remote file with the connections that back it,
// so closing the returned reader tears everything down.
type sftpReadCloser struct {
	file   io.ReadCloser
	sftp   *sftp.Client
	client *ssh.Client
}

func (s *sftpReadCloser) Read(p []byte) (int, error) { return s.file.Read(p) }

func (s *sftpReadCloser) Close() error {
	err := s.file.Close()
	_ = s.sftp.Close()
	_ = s.client.Close()
	return err
}

// hostKeyCallback verifies the presented host key against the known_hosts
// table. Unknown hosts must be trusted explicitly via `passforge trust-host`.
func hostKeyCallback(hostname string, remote net.Addr, key ssh.PublicKey) error {
	// The hostname passed to the callback can include the port; strip it so
	// the lookup matches what trust-host stored.
	host, _, err := net.SplitHostPort(hostname)
	if err != nil {
		host = hostname
	}

	presentedKey := string(ssh.MarshalAuthorizedKey(key))

	knownKey, err := knownHostKeyFunc(host)
	if err != nil {
		return fmt.Errorf("failed to query known_hosts database: %w", err)
	}
	if knownKey == "" {
		return fmt.Errorf("unknown host key for %s. run 'passforge trust-host' to add it", host)
	}
	if knownKey != presentedKey {
		return fmt.Errorf("!!! HOST KEY MISMATCH FOR %s !!!\nRemote key presented: %s\nThis could be a man-in-the-middle attack", host, presentedKey)
	}
	return nil
}

// fetchSFTP opens the remote file named by u (sftp://user@host[:port]/path)
// and returns a reader over its contents. The context bounds the dial.
func fetchSFTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: sftp source %q has no username", passphrase.ErrResourceUnavailable, u.String())
	}
	user := u.User.Username()

	addr := u.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	agentClient := getSSHAgent()
	if agentClient == nil {
		return nil, fmt.Errorf("%w: no ssh agent available for sftp source", passphrase.ErrResourceUnavailable)
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}

	// ssh.Dial has no context form; honor cancellation by dialing the TCP
	// connection ourselves first.
	dialer := &net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: failed to create sftp client: %v", passphrase.ErrResourceUnavailable, err)
	}

	f, err := sftpClient.Open(u.Path)
	if err != nil {
		_ = sftpClient.Close()
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}

	return &sftpReadCloser{file: f, sftp: sftpClient, client: client}, nil
}

// FetchHostKey connects to addr and returns the host key it presents, in
// authorized_keys format, without trusting it. Used by `trust-host`.
func FetchHostKey(ctx context.Context, addr string) (string, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	var captured string
	config := &ssh.ClientConfig{
		User: "passforge-probe",
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			captured = string(ssh.MarshalAuthorizedKey(key))
			// Abort the handshake once we have the key; we never authenticate.
			return fmt.Errorf("host key captured")
		},
		Timeout: 10 * time.Second,
	}

	dialer := &net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	_, _, _, err = ssh.NewClientConn(conn, addr, config)
	_ = conn.Close()
	if captured == "" {
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("no host key presented by %s", addr)
	}
	return captured, nil
}

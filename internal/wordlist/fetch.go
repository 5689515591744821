// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package wordlist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/toeirei/passforge/internal/logging"
	"github.com/toeirei/passforge/internal/passphrase"
)

// FetchInfo describes a completed fetch: what landed on disk and how big
// the parsed list is. It feeds the word-list registry.
type FetchInfo struct {
	Checksum string // SHA-256 of the cached file, hex
	Words    int
}

// httpClient is the client used for http(s) fetches. Package-level so tests
// can shorten the timeout.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Ensure returns the parsed word list at path, fetching it from sourceURI
// first when no local copy exists. The context cancels the fetch only;
// parsing a present file never blocks. Any failure to produce a readable
// list surfaces as a resource error with no partial result.
func Ensure(ctx context.Context, path, sourceURI string) ([]string, error) {
	if _, err := os.Stat(path); err == nil {
		return Get(path)
	}
	if sourceURI == "" {
		return nil, fmt.Errorf("%w: %s does not exist and no source URI configured", passphrase.ErrResourceUnavailable, path)
	}
	if _, err := Fetch(ctx, sourceURI, path); err != nil {
		return nil, err
	}
	return Get(path)
}

// Fetch downloads sourceURI into destPath. The payload lands in a temp file
// in the destination directory and is renamed into place so a failed fetch
// never leaves a truncated list behind. Supported schemes: http, https,
// sftp, and file (or a bare path) for local copies.
func Fetch(ctx context.Context, sourceURI, destPath string) (*FetchInfo, error) {
	u, err := url.Parse(sourceURI)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid source URI %q: %v", passphrase.ErrResourceUnavailable, sourceURI, err)
	}

	var body io.ReadCloser
	switch u.Scheme {
	case "http", "https":
		body, err = fetchHTTP(ctx, sourceURI)
	case "sftp":
		body, err = fetchSFTP(ctx, u)
	case "", "file":
		body, err = os.Open(u.Path)
		if err != nil {
			err = fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported source scheme %q", passphrase.ErrResourceUnavailable, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	info, err := writeAtomic(destPath, body)
	if err != nil {
		return nil, err
	}

	Invalidate(destPath)
	words, err := Get(destPath)
	if err != nil {
		return nil, err
	}
	info.Words = len(words)

	logging.Debugf("wordlist: fetched %s -> %s (%d words, sha256 %s)", sourceURI, destPath, info.Words, info.Checksum)
	return info, nil
}

// fetchHTTP performs a plain GET and returns the response body.
func fetchHTTP(ctx context.Context, sourceURI string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURI, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %s fetching %s", passphrase.ErrResourceUnavailable, resp.Status, sourceURI)
	}
	return resp.Body, nil
}

// writeAtomic streams r into destPath via a temp file and rename, hashing
// the payload on the way through.
func writeAtomic(destPath string, r io.Reader) (*FetchInfo, error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: could not create %s: %v", passphrase.ErrResourceUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".passforge-fetch-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	tmpPath := tmp.Name()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}

	return &FetchInfo{Checksum: hex.EncodeToString(h.Sum(nil))}, nil
}

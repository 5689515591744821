package wordlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/toeirei/passforge/internal/passphrase"
)

func TestEnsure_FetchesWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "fetched.txt")
	words, err := Ensure(context.Background(), path, srv.URL)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cached file at %s: %v", path, err)
	}
}

func TestEnsure_PrefersLocalFile(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "local.txt")
	if err := os.WriteFile(path, []byte("11111\tlocal\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	words, err := Ensure(context.Background(), path, srv.URL)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if called {
		t.Fatal("Ensure fetched despite a present local file")
	}
	if len(words) != 1 || words[0] != "Local" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestEnsure_NoFileNoSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")
	_, err := Ensure(context.Background(), path, "")
	if !errors.Is(err, passphrase.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Fetch(context.Background(), srv.URL, path)
	if !errors.Is(err, passphrase.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("failed fetch must not leave a file behind")
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "cancelled.txt")
	_, err := Fetch(ctx, srv.URL, path)
	if !errors.Is(err, passphrase.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestFetch_RecordsChecksumAndCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "info.txt")
	info, err := Fetch(context.Background(), srv.URL, path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if info.Words != 3 {
		t.Fatalf("expected 3 words, got %d", info.Words)
	}
	if len(info.Checksum) != 64 {
		t.Fatalf("expected hex sha256 checksum, got %q", info.Checksum)
	}
}

func TestFetch_LocalFileScheme(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte(sampleList), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dest := filepath.Join(dir, "dest.txt")
	info, err := Fetch(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if info.Words != 3 {
		t.Fatalf("expected 3 words, got %d", info.Words)
	}
}

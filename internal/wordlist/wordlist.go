// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// package wordlist loads and caches the diceware word lists that the
// passphrase generator draws from. A word list is a plain-text file, one
// candidate per line, each line carrying a fixed-width dice-index prefix
// that is stripped on parse. Parsed lists are immutable and cached
// process-wide; concurrent readers share one copy.
package wordlist // import "github.com/toeirei/passforge/internal/wordlist"

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/toeirei/passforge/internal/passphrase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFilename is the on-disk name of the cached default word list.
const DefaultFilename = "eff_large_wordlist.txt"

// DefaultSourceURI is the canonical public location of the EFF large
// wordlist, fetched once when no local copy exists.
const DefaultSourceURI = "https://www.eff.org/files/2016/07/18/eff_large_wordlist.txt"

// prefixWidth is the fixed number of leading characters stripped from each
// line: the five-digit dice index plus its separator.
const prefixWidth = 6

// cache holds parsed word lists keyed by path. Lists are immutable after
// load, so readers can share slices without copying.
var cache = struct {
	sync.RWMutex
	lists map[string][]string
}{lists: map[string][]string{}}

// DefaultPath returns the platform-specific location of the cached default
// word list: %ProgramData%\PassForge on Windows, the user cache directory
// elsewhere.
func DefaultPath() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = filepath.Join(os.Getenv("ProgramData"), "PassForge")
	default:
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("could not get user cache directory: %w", err)
		}
		dir = filepath.Join(cacheDir, "passforge")
	}
	return filepath.Join(dir, DefaultFilename), nil
}

// Parse reads a word list from r. Each non-blank line loses its
// prefixWidth-character dice-index prefix and the remainder is title-cased.
// An empty result is a resource error, never an empty list.
func Parse(r io.Reader) ([]string, error) {
	titler := cases.Title(language.English)
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) <= prefixWidth {
			continue
		}
		word := titler.String(line[prefixWidth:])
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words parsed", passphrase.ErrResourceUnavailable)
	}
	return words, nil
}

// Load parses the word list file at path, bypassing the cache.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", passphrase.ErrResourceUnavailable, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Get returns the cached parse of path, loading it on first use. The
// returned slice is shared and must not be mutated.
func Get(path string) ([]string, error) {
	cache.RLock()
	if words, ok := cache.lists[path]; ok {
		cache.RUnlock()
		return words, nil
	}
	cache.RUnlock()

	words, err := Load(path)
	if err != nil {
		return nil, err
	}

	cache.Lock()
	cache.lists[path] = words
	cache.Unlock()
	return words, nil
}

// Invalidate drops the cached parse of path, forcing a reload on the next
// Get. Called after a fetch replaces the file.
func Invalidate(path string) {
	cache.Lock()
	delete(cache.lists, path)
	cache.Unlock()
}

// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package passphrase

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// randInt draws a uniform random int in [0, n) from r. It uses
// crypto/rand.Int, which rejection-samples internally, so draws carry no
// modulo bias. r is normally crypto/rand.Reader; tests inject a
// deterministic reader.
func randInt(r io.Reader, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: random bound must be positive, got %d", ErrConfiguration, n)
	}
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random value: %w", err)
	}
	return int(v.Int64()), nil
}

// randDelimiter builds a delimiter of length characters, each drawn
// independently from set.
func randDelimiter(r io.Reader, set string, length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := randInt(r, len(set))
		if err != nil {
			return "", err
		}
		b.WriteByte(set[idx])
	}
	return b.String(), nil
}

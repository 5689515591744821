// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package passphrase

import "errors"

// ErrConfiguration is returned when an option is outside its validated
// range or a preset name is unknown. It is always detected before any
// generation work happens.
var ErrConfiguration = errors.New("invalid generator configuration")

// ErrResourceUnavailable is returned when the word list is missing, empty,
// or unreadable. Generation never produces partial output on this error.
var ErrResourceUnavailable = errors.New("word list unavailable")

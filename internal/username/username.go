// Package username canonicalises user-entered Instagram handles. The same
// rules run on every input path so the form, the lookup controller, and the
// resolution pipeline always agree on what string is "the same username".
package username

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxLength = 30

var validPattern = regexp.MustCompile(`^[A-Za-z0-9._]+$`)

// Validation errors returned by Normalize. Any error means the input is
// invalid; the distinctions only feed user-facing messages.
var (
	ErrEmpty    = errors.New("username: empty")
	ErrTooLong  = fmt.Errorf("username: longer than %d characters", maxLength)
	ErrBadChars = errors.New("username: only letters, numbers, . and _ allowed")
)

// Normalize trims surrounding whitespace and strips any leading @ characters,
// then validates the remainder. The canonical form preserves the original
// case. Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(raw), "@")
	if trimmed == "" {
		return "", ErrEmpty
	}
	if len(trimmed) > maxLength {
		return "", ErrTooLong
	}
	if !validPattern.MatchString(trimmed) {
		return "", ErrBadChars
	}
	return trimmed, nil
}

// Equal reports whether two normalized usernames refer to the same handle.
// Instagram handles are case-insensitive.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

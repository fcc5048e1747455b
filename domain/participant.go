// This file defines the identity a peer declares when it connects.
package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"unicode"
)

// NormalizeUsername trims the declared name and checks it is usable.
// Names are display names only and are not required to be unique.
func NormalizeUsername(declared string, maxLength int) (string, error) {
	username := strings.TrimSpace(declared)
	if username == "" {
		return "", errors.ErrMissingUsername
	}
	if maxLength > 0 {
		if err := validate.Var(username, fmt.Sprintf("max=%d", maxLength)); err != nil {
			return "", fmt.Errorf("%w: longer than %d characters", errors.ErrInvalidUsername, maxLength)
		}
	}
	if strings.IndexFunc(username, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: contains control characters", errors.ErrInvalidUsername)
	}
	return username, nil
}

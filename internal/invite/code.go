package invite

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// codeBytes gives 128 bits of entropy, well past the point where
// guessing a live code is practical.
const codeBytes = 16

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func newCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return codeEncoding.EncodeToString(buf), nil
}

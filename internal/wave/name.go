// Package wave indexes WAVE character-trie name registrations, grounded on
// original_source/electrumx/server/wave_index.py.
package wave

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Alphabet is the 37-character WAVE charset: a-z, 0-9, hyphen.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-"

const (
	// MinNameLength and MaxNameLength bound a registrable name.
	MinNameLength = 1
	MaxNameLength = 63

	// OutputCount is the minimum outputs a registration tx must carry: one
	// claim output plus one branch per alphabet character.
	OutputCount = 1 + len(Alphabet)
)

// CharToIndex returns c's position in Alphabet (0-36), case-insensitively.
func CharToIndex(c byte) (int, error) {
	lower := strings.ToLower(string(c))[0]
	idx := strings.IndexByte(Alphabet, lower)
	if idx < 0 {
		return 0, fmt.Errorf("wave: invalid character %q", c)
	}
	return idx, nil
}

// IndexToChar returns the alphabet character at index (0-36).
func IndexToChar(index int) (byte, error) {
	if index < 0 || index >= len(Alphabet) {
		return 0, fmt.Errorf("wave: invalid index %d", index)
	}
	return Alphabet[index], nil
}

// CharToOutputIndex returns the branch-output index (1-37) for c.
func CharToOutputIndex(c byte) (int, error) {
	idx, err := CharToIndex(c)
	if err != nil {
		return 0, err
	}
	return idx + 1, nil
}

// OutputIndexToChar returns the alphabet character for a branch-output
// index (1-37).
func OutputIndexToChar(outputIndex int) (byte, error) {
	if outputIndex < 1 || outputIndex > len(Alphabet) {
		return 0, fmt.Errorf("wave: invalid branch output index %d", outputIndex)
	}
	return IndexToChar(outputIndex - 1)
}

// NormalizeName lowercases and trims a candidate name.
func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// ValidateName enforces the length/alphabet/hyphen rules of core spec §3.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("wave: name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("wave: name exceeds maximum length of %d", MaxNameLength)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("wave: name cannot start with hyphen")
	}
	if strings.HasSuffix(name, "-") {
		return fmt.Errorf("wave: name cannot end with hyphen")
	}
	lower := strings.ToLower(name)
	if strings.Contains(name, "--") && !strings.HasPrefix(lower, "xn--") {
		return fmt.Errorf("wave: name cannot contain consecutive hyphens (except Punycode prefix)")
	}
	for i := 0; i < len(lower); i++ {
		if strings.IndexByte(Alphabet, lower[i]) < 0 {
			return fmt.Errorf("wave: invalid character %q", lower[i])
		}
	}
	return nil
}

// NameToHash returns the 16-byte SHA-256 prefix used as the WN lookup key,
// case- and whitespace-insensitive.
func NameToHash(name string) []byte {
	h := sha256.Sum256([]byte(NormalizeName(name)))
	return h[:16]
}

// Package provenance resolves the commit hash a build is stamped with.
package provenance

import "strings"

const (
	// Unknown is returned when no source yields a usable commit hash
	Unknown CommitHash = "unknown"

	// MinLength is the shortest accepted commit hash
	MinLength = 7

	// MaxLength is the length of a full SHA-1 commit hash; longer input is truncated
	MaxLength = 40
)

// CommitHash identifies the source revision a build was produced from
type CommitHash string

// String returns the hash as a plain string
func (h CommitHash) String() string {
	return string(h)
}

// IsUnknown reports whether h is the Unknown sentinel
func (h CommitHash) IsUnknown() bool {
	return h == Unknown
}

// Normalize validates raw and returns its canonical form.
// Whitespace is trimmed and letters are lowercased. The result must be
// hexadecimal and at least MinLength long; anything beyond MaxLength is cut.
// The second return value is false when raw is not a usable hash.
func Normalize(raw string) (CommitHash, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	lowered := make([]byte, len(trimmed))
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		if !isHex(c) {
			return "", false
		}
		lowered[i] = c
	}

	if len(lowered) < MinLength {
		return "", false
	}
	if len(lowered) > MaxLength {
		lowered = lowered[:MaxLength]
	}

	return CommitHash(lowered), true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

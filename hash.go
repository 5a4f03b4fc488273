package site2pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable digest of a page's visible text for
// duplicate detection. Whitespace runs collapse to a single space and
// leading/trailing whitespace is stripped before hashing; case is preserved.
// Equal canonical text yields an equal digest. Empty input produces the
// digest of the empty string.
func Fingerprint(text string) string {
	canonical := strings.Join(strings.Fields(text), " ")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

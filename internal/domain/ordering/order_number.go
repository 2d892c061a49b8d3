package ordering

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var orderNoPattern = regexp.MustCompile(`^[0-9A-F]{12}$`)

// GenerateOrderNo returns a new 12-character uppercase hex order number from
// 6 random bytes. Collisions are possible at this length; callers retry on a
// unique constraint violation.
func GenerateOrderNo() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// ValidOrderNo reports whether s is a well-formed order number
func ValidOrderNo(s string) bool {
	return orderNoPattern.MatchString(s)
}

package diagnosis

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const linkCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const linkCodeLength = 8

var linkCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// GenerateLinkCode returns a random 8-character code from the A-Z0-9
// charset, used to tie a web diagnosis to a messaging-channel account.
func GenerateLinkCode() (string, error) {
	buf := make([]byte, linkCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link code: %w", err)
	}
	for i, b := range buf {
		buf[i] = linkCodeCharset[int(b)%len(linkCodeCharset)]
	}
	return string(buf), nil
}

// IsValidLinkCode reports whether s has the link code format.
func IsValidLinkCode(s string) bool {
	return linkCodePattern.MatchString(s)
}

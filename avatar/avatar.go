// Package avatar builds gravatar image URLs for submitter emails.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	DefaultSize = 70
	baseURL     = "http://www.gravatar.com/avatar/"
)

// URL returns the gravatar image URL for email at the given pixel size.
// It does not contact the service.
func URL(email string, size int) string {
	if size <= 0 {
		size = DefaultSize
	}
	return fmt.Sprintf("%s%s?s=%d", baseURL, Hash(email), size)
}

// Hash is the hex MD5 of the trimmed, lowercased email, as gravatar
// expects it.
func Hash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used for passwords read from the terminal once they are no longer needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// BearerToken strips the "Bearer " prefix from an Authorization header value.
// It returns "" when the header is not a bearer credential.
func BearerToken(header string) string {
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

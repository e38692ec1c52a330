package common

import "regexp"

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidUsername reports whether s is made of letters, digits and underscores only.
func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

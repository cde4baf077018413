// Package inputval holds small validators for user-supplied fields.
package inputval

import (
	"net/mail"
	"strings"
	"unicode"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name)
// with dot-atom local and domain parts. Single-label domains are allowed.
func IsValidEmail(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || !dotAtom(local) || !dotAtom(domain) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

// dotAtom rejects empty parts and leading, trailing or doubled dots.
func dotAtom(part string) bool {
	return part != "" &&
		!strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"shopfront/internal/domain"
)

const maxQueryLen = 100

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Present reports whether every value is non-blank.
func Present(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Q trims a search query and caps its length. Blank queries are rejected.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > maxQueryLen {
		s = string([]rune(s)[:maxQueryLen])
	}
	return s, true
}

// ID validates a simple resource identifier (uuid or slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Qty accepts quantities from 1 up to domain.MaxLineQuantity.
func Qty(n int) bool { return n >= 1 && n <= domain.MaxLineQuantity }

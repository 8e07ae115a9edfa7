package pageqa

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeText drops control and zero-width characters, collapses
// whitespace runs to a single space, and trims the result. s must already
// be decoded text; entities in it are kept literally.
func NormalizeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case isInvisible(r):
			continue
		default:
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// isInvisible reports whether r renders as nothing: control characters,
// format characters (zero-width spaces, BOM, soft hyphen), and invalid UTF-8.
func isInvisible(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r) || r == utf8.RuneError
}

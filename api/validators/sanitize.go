package validators

import (
	"strings"
	"unicode"
)

// SanitizeHeader trims a client supplied header value, drops control
// characters and caps it at maxLen bytes.
func SanitizeHeader(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen]
	}
	return cleaned
}

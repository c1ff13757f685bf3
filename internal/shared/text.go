// Text repair for titles and artists stored by the bot.
package shared

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Repair undoes common encoding damage in stored text. It never fails: anything it can't fix is returned as-is.
//
// Percent-encoding and UTF-8 bytes that were decoded as Windows-1252 are reversed, repeatedly, until
// the text stops changing, so Repair(Repair(s)) == Repair(s).
func Repair(s string) string {
	for {
		if isASCII(s) {
			return s
		}

		if decoded, ok := percentDecode(s); ok {
			s = decoded
			continue
		}

		if fixed, ok := reinterpretBytes(s); ok {
			s = fixed
			continue
		}

		return s
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// percentDecode reports ok only when decoding changed s and produced valid UTF-8.
func percentDecode(s string) (string, bool) {
	if !strings.Contains(s, "%") {
		return s, false
	}
	decoded, err := url.PathUnescape(s)
	if err != nil || decoded == s || !utf8.ValidString(decoded) {
		return s, false
	}
	return decoded, true
}

// reinterpretBytes maps each rune back to its single Windows-1252 byte and reads the result as UTF-8.
func reinterpretBytes(s string) (string, bool) {
	if !utf8.ValidString(s) {
		return s, false
	}
	raw, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || raw == s || !utf8.ValidString(raw) {
		return s, false
	}
	return raw, true
}

// NormalizeName collapses whitespace runs and trims s.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

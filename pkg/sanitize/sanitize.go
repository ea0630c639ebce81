package sanitize

import "strings"

// Identifier strips every rune outside [A-Za-z0-9_-] from the supplied
// token so it can be used as a file name. The mapping is deterministic
// but not injective: "a.b" and "ab" collapse to the same identifier.
// That collision risk is accepted for realistic, non-adversarial ids;
// it is not silently resolved. An empty result means the token is
// unusable and callers must reject it before touching the filesystem.
func Identifier(token string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '_' || r == '-':
			return r
		default:
			return -1
		}
	}, token)
}

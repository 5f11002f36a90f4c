package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sanitizeComment normalizes a raw review comment for storage:
//
//  1. Unicode NFKC normalization, so visually equivalent sequences compare
//     and render consistently.
//  2. CRLF and bare CR line endings collapsed to LF.
//  3. ASCII control characters (except TAB and LF), zero-width characters,
//     and bidirectional control characters stripped.
//  4. Surrounding whitespace trimmed.
//
// An empty result means "no comment". The function is idempotent: feeding
// its output back in returns the same string. Length validation is the
// caller's concern.
func sanitizeComment(raw string) string {
	if raw == "" {
		return ""
	}

	normalized := norm.NFKC.String(raw)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var b strings.Builder
	b.Grow(len(normalized))

	for _, r := range normalized {
		if isStrippedRune(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// SanitizeComment exposes the comment sanitizer to the transport layer so
// request input is normalized before it reaches the services. Sanitization
// is idempotent, so the service applying it again is harmless.
func SanitizeComment(raw string) string {
	return sanitizeComment(raw)
}

// isStrippedRune reports whether the rune must not survive sanitization:
// ASCII control characters other than TAB and LF, zero-width characters,
// and bidi control characters.
func isStrippedRune(r rune) bool {
	switch {
	case r >= 0x00 && r <= 0x08:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	case r >= 0x200B && r <= 0x200D: // zero-width space, ZWNJ, ZWJ
		return true
	case r == 0x2060 || r == 0xFEFF: // word joiner, BOM
		return true
	case r >= 0x202A && r <= 0x202E: // bidi embedding and overrides
		return true
	case r >= 0x2066 && r <= 0x2069: // bidi isolates
		return true
	}
	return false
}

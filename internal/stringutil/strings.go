// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"
	"unicode"
)

// prefixTrimSet holds the separator characters stripped after a redundant
// prefix is removed: space, colon, en-dash, hyphen.
const prefixTrimSet = " :–-"

// StripRedundantPrefix removes a redundant leading label from a message body.
// The match is case-insensitive and rune-aware; on a match exactly
// len(prefix) characters are removed, followed by any separator characters
// and leading whitespace. Returns the body unchanged when the prefix is
// empty or not a leading match.
//
// Example:
//
//	StripRedundantPrefix("MSD: lift safely", "MSD") returns "lift safely"
//	StripRedundantPrefix("Lift safely", "MSD") returns "Lift safely"
func StripRedundantPrefix(body, prefix string) string {
	body = strings.TrimLeftFunc(body, unicode.IsSpace)
	if prefix == "" {
		return body
	}

	bodyRunes := []rune(body)
	prefixRunes := []rune(prefix)
	if len(bodyRunes) < len(prefixRunes) {
		return body
	}

	head := string(bodyRunes[:len(prefixRunes)])
	if !strings.EqualFold(head, prefix) {
		return body
	}

	rest := string(bodyRunes[len(prefixRunes):])
	rest = strings.TrimLeft(rest, prefixTrimSet)
	return strings.TrimLeftFunc(rest, unicode.IsSpace)
}

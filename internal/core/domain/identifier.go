package domain

import "strings"

// IsNumericIdentifier reports whether s consists only of ASCII digits.
// The empty string is not numeric.
func IsNumericIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CompareIdentifiers orders identifiers so that numeric identifiers come
// first, compared by integer value, followed by every other identifier in
// lexicographic order. It returns -1, 0 or +1.
//
// Numeric values are compared on their digits, so identifiers longer than
// any machine integer still order correctly. "9" and "09" compare equal.
func CompareIdentifiers(a, b string) int {
	an, bn := IsNumericIdentifier(a), IsNumericIdentifier(b)
	switch {
	case an && !bn:
		return -1
	case !an && bn:
		return 1
	case !an && !bn:
		return strings.Compare(a, b)
	}

	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// IdentifierLess reports whether a sorts before b under CompareIdentifiers.
func IdentifierLess(a, b string) bool {
	return CompareIdentifiers(a, b) < 0
}

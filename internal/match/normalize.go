package match

import (
	"strings"
	"unicode"
)

// NormalizeName folds a document name for fuzzy matching:
// 1. Drop the attribute marker and any namespace prefix.
// 2. Tokenize CamelCase.
// 3. Case-fold to lower and strip separators (_, -, ., spaces).
func NormalizeName(s string) string {
	return strings.Join(TokenizeName(s), "")
}

// TokenizeName splits a name into lowercase tokens.
// Examples:
//   - "firstName" -> ["first", "name"]
//   - "ns:OrderID" -> ["order", "id"]
//   - "@XMLVersion" -> ["xml", "version"]
//   - "first_name" -> ["first", "name"]
func TokenizeName(s string) []string {
	s = strings.TrimPrefix(s, "@")
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

// startsToken reports a lower to upper transition ("orderID" before 'I')
// or the end of an acronym ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

package extract

import (
	"strings"
	"unicode"
)

// LowerCaseWords turns an identifier-style name into lower case words:
// "EntersName" becomes "enters name", "parseHTTPResponse" becomes
// "parse http response". Digits form words of their own.
func LowerCaseWords(identifier string) string {
	runes := []rune(identifier)
	var words []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			// Start a new word, except inside an acronym run such as the
			// "TTP" of "HTTPResponse".
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				flush()
			}
			word = append(word, r)
		case unicode.IsDigit(r):
			if len(word) > 0 && !unicode.IsDigit(word[len(word)-1]) {
				flush()
			}
			word = append(word, r)
		default:
			if len(word) > 0 && unicode.IsDigit(word[len(word)-1]) {
				flush()
			}
			word = append(word, r)
		}
	}
	flush()
	return strings.Join(words, " ")
}

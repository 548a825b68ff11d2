package symbols

import (
	"strings"
	"unicode"
)

// ResolveTicker maps a free-form company name to an NSE ticker. The ladder:
// alias table substring match, then an acronym built from the words, then
// the bare first word. Returns "" when nothing plausible comes out.
func (t *Tables) ResolveTicker(company string) string {
	companyLower := strings.ToLower(company)

	for _, e := range t.companyAliases {
		if strings.Contains(companyLower, e.Alias) {
			return e.Symbol
		}
	}

	words := strings.Fields(company)

	if len(words) >= 2 {
		var b strings.Builder
		for _, w := range words {
			r := []rune(w)
			b.WriteRune(unicode.ToUpper(r[0]))
		}
		acronym := b.String()
		if len(acronym) >= 2 && len(acronym) <= 6 {
			return acronym
		}
	}

	if len(words) > 0 {
		firstWord := strings.ToUpper(words[0])
		if len(firstWord) >= 3 && len(firstWord) <= 10 && isAlpha(firstWord) {
			return firstWord
		}
	}

	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

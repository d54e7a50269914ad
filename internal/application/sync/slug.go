package sync

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cyrillicTranslit maps Cyrillic letters to their Latin transliteration.
// 1C feeds are Russian; anything not covered here goes through Unicode
// decomposition and mark stripping instead.
var cyrillicTranslit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// asciiFold strips combining marks after canonical decomposition,
// turning e.g. "é" into "e".
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify builds a URL slug from free text. Non-ASCII text is
// transliterated, the result is lowercased and hyphenated, and the
// ERP id is always appended so slugs stay unique across name collisions.
// An empty transliteration falls back to the given base token.
func Slugify(text, fallback string, id int64) string {
	base := slugBase(text)
	if base == "" {
		base = fallback
	}
	return fmt.Sprintf("%s-%d", base, id)
}

func slugBase(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	var translit strings.Builder
	for _, r := range lowered {
		if latin, ok := cyrillicTranslit[r]; ok {
			translit.WriteString(latin)
		} else {
			translit.WriteRune(r)
		}
	}

	folded, _, err := transform.String(asciiFold, translit.String())
	if err != nil {
		folded = translit.String()
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

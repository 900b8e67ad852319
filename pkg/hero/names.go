package hero

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// typeNamePrefix prefixes every formula's display type name.
const typeNamePrefix = "HeroFormula"

// SanitizeName turns an arbitrary formula name into an identifier: anything
// other than letters, whitespace and underscores is dropped, the rest is
// split into words on whitespace and underscores, and each word is
// title-cased.
//
//	SanitizeName("my_formula")                           // "MyFormula"
//	SanitizeName("A long and cr@zy f0rmul@ name ~12$%")  // "ALongAndCrzyFrmulName"
func SanitizeName(name string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, name)

	words := strings.FieldsFunc(kept, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	})

	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

package report

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareFunc orders two display names; negative means a sorts first.
type CompareFunc func(a, b string) int

// LocaleCompare returns a collation-aware comparison for tag. The underlying
// collator keeps scratch buffers, so calls are serialized.
func LocaleCompare(tag language.Tag) CompareFunc {
	var mu sync.Mutex
	c := collate.New(tag)
	return func(a, b string) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a, b)
	}
}

// LocaleCompareFor parses a BCP 47 tag such as "de" and falls back to German
// when it cannot be parsed.
func LocaleCompareFor(locale string) CompareFunc {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}
	return LocaleCompare(tag)
}

// Ordinal compares by code point; useful for synthetic test locales.
func Ordinal(a, b string) int {
	return strings.Compare(a, b)
}

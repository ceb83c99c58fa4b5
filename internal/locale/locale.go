// Package locale defines the supported content locales and their fallback order.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported content language.
type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"
	French  Locale = "fr"
)

// Default is the locale every lesson is guaranteed to provide.
const Default = English

// Supported lists locales in fallback order.
var Supported = []Locale{English, Spanish, French}

// Parse maps a language tag such as "fr-CA" to a supported locale.
// Unknown or malformed tags map to Default.
func Parse(tag string) Locale {
	if l, ok := Match(tag); ok {
		return l
	}
	return Default
}

// Match is Parse without the fallback: ok is false when tag names no
// supported locale. An empty tag is not a match.
func Match(tag string) (Locale, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := parsed.Base()
	candidate := Locale(base.String())
	if !candidate.Valid() {
		return "", false
	}
	return candidate, true
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Chain returns the lookup order for l: l itself, then Default, then the
// remaining supported locales.
func (l Locale) Chain() []Locale {
	chain := make([]Locale, 0, len(Supported)+1)
	if l.Valid() {
		chain = append(chain, l)
	}
	if l != Default {
		chain = append(chain, Default)
	}
	for _, s := range Supported {
		if s == l || s == Default {
			continue
		}
		chain = append(chain, s)
	}
	return chain
}

func (l Locale) String() string {
	return string(l)
}

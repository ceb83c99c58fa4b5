package locale

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := map[string]Locale{
		"":      English,
		"en":    English,
		"fr-CA": French,
		"es_MX": Spanish,
		"ES":    Spanish,
		"de":    English,
		"???":   English,
	}
	for tag, want := range cases {
		if got := Parse(tag); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	if l, ok := Match("fr-CA"); !ok || l != French {
		t.Fatalf("expected fr-CA to match French, got %q ok=%v", l, ok)
	}
	for _, tag := range []string{"", "de", "???"} {
		if _, ok := Match(tag); ok {
			t.Fatalf("expected %q not to match", tag)
		}
	}
}

func TestChain(t *testing.T) {
	if got := French.Chain(); !reflect.DeepEqual(got, []Locale{French, English, Spanish}) {
		t.Fatalf("unexpected fr chain: %v", got)
	}
	if got := English.Chain(); !reflect.DeepEqual(got, []Locale{English, Spanish, French}) {
		t.Fatalf("unexpected en chain: %v", got)
	}
	if got := Locale("de").Chain(); !reflect.DeepEqual(got, []Locale{English, Spanish, French}) {
		t.Fatalf("unexpected chain for unsupported locale: %v", got)
	}
}

package tui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("pay the full balance every month", 12)
	want := "pay the full\nbalance\nevery month"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("RRSP-contribution", 6)
	want := "RRSP-c\nontrib\nution"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	got := wrapText("one two\nthree", 20)
	if got != "one two\nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("税金税金", 4)
	if got != "税金\n税金" {
		t.Fatalf("unexpected wide wrap: %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("a b", 0); got != "a b" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestHangingIndent(t *testing.T) {
	got := hangingIndent("1. ", "keep usage under thirty percent", 14)
	want := "1. keep usage\n   under\n   thirty\n   percent"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesMistype(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, []rune("ax"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes([]string{"one", "two"}, []rune("o"))
	if len(runes) != 7 {
		t.Fatalf("expected 7 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped rune in head word")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected separator between words")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesIgnoresInputForLaterWords(t *testing.T) {
	runes := buildStyledRunes([]string{"a", "b"}, []rune("ab"))
	if runes[2].s != pendingStyle.Render("b") {
		t.Fatalf("expected later words to stay pending")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildStyledRunes([]string{"aa", "bb", "cc"}, nil)
	wrapped := wrapStyledRunes(runes, 5)
	if got := strings.Count(wrapped, "\n"); got != 1 {
		t.Fatalf("expected 2 lines, got %d: %q", got+1, wrapped)
	}
}

func TestLimitLines(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"a\nb\nc", 2, "a\nb"},
		{"a\nb", 5, "a\nb"},
		{"a", 0, ""},
	}
	for _, tc := range cases {
		if got := limitLines(tc.in, tc.n); got != tc.want {
			t.Fatalf("limitLines(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

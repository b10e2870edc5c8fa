package wordbank

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/typespeed/internal/model"
)

func TestDefaultBank(t *testing.T) {
	words, err := Default()
	if err != nil {
		t.Fatalf("load default bank: %v", err)
	}
	if len(words) < 900 {
		t.Fatalf("expected roughly 1000 words, got %d", len(words))
	}
	if words[0] != "able" || words[len(words)-1] != "your" {
		t.Fatalf("unexpected bank bounds: %q .. %q", words[0], words[len(words)-1])
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	words, err := Parse(strings.NewReader("cat\n\n  dog  \n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(words) != 2 || words[0] != "cat" || words[1] != "dog" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestParseRejectsEmptyBank(t *testing.T) {
	_, err := Parse(strings.NewReader("\n \n"))
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}

func TestParseRejectsNonASCII(t *testing.T) {
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", "Cat"} {
		_, err := Parse(strings.NewReader("cat\n" + word + "\n"))
		if !errors.Is(err, model.ErrInvalidConfiguration) {
			t.Fatalf("expected %q to be rejected, got %v", word, err)
		}
	}
}

// Package wordbank loads the fixed dictionary of common English words.
package wordbank

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/typespeed/internal/model"
)

//go:embed words.txt
var defaultWords []byte

// Default returns the embedded word bank.
func Default() ([]string, error) {
	return Parse(bytes.NewReader(defaultWords))
}

// Parse reads one word per line, skipping blank lines.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if !validWord(word) {
			return nil, fmt.Errorf("%w: word %q on line %d is not lowercase ascii", model.ErrInvalidConfiguration, word, line)
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word bank: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: word bank is empty", model.ErrInvalidConfiguration)
	}
	return words, nil
}

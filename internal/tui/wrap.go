package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles the word queue. Only the head word reacts to input:
// typed runes are marked correct or incorrect and the next rune carries the cursor.
func buildStyledRunes(words []string, inputRunes []rune) []styledRune {
	out := make([]styledRune, 0, len(words)*6)
	for wi, word := range words {
		if wi > 0 {
			out = append(out, styledRune{s: pendingStyle.Render(" "), width: 1, isSpace: true})
		}
		for i, r := range []rune(word) {
			style := pendingStyle
			if wi == 0 {
				switch {
				case i < len(inputRunes) && inputRunes[i] == r:
					style = correctStyle
				case i < len(inputRunes):
					style = incorrectStyle
				case i == len(inputRunes):
					style = cursorStyle
				default:
					style = currentWordStyle
				}
			}
			out = append(out, styledRune{
				s:     style.Render(string(r)),
				width: runewidth.RuneWidth(r),
			})
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

// limitLines keeps at most n lines of s.
func limitLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

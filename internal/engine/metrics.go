package engine

import "math"

// charsPerWord is the standard average word length used for WPM.
const charsPerWord = 5.0

// WordsPerMinute converts a CPM count to WPM, rounding half away from zero.
func WordsPerMinute(cpm int) int {
	return int(math.Round(float64(cpm) / charsPerWord))
}

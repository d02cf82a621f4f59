package unicodex

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// RuneWidth returns the display width of a single rune: 0 for
// non-spacing marks and control characters, 1 for most characters, 2
// for East-Asian-wide and emoji-presentation characters.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// DisplayWidth returns the terminal column width of s, computed as the
// sum of its grapheme clusters' widths (East-Asian-Width plus emoji
// presentation). DisplayWidth(a+b) == DisplayWidth(a) + DisplayWidth(b)
// for grapheme-aligned a, b since uniseg never folds a cluster across
// the concatenation point.
func DisplayWidth(s string) int {
	return uniseg.StringWidth(s)
}

// CharCount returns the number of codepoints (runes) in line.
func CharCount(line string) int {
	return utf8.RuneCountInString(line)
}

// CharToColumn returns the display column at which codepoint index ci
// starts, by summing the individual widths of the codepoints before it.
func CharToColumn(line string, ci int) int {
	if ci <= 0 {
		return 0
	}
	col := 0
	i := 0
	for _, r := range line {
		if i >= ci {
			break
		}
		col += RuneWidth(r)
		i++
	}
	return col
}

// ColumnToChar returns the codepoint index of the grapheme cluster
// covering display column dc, rounding down to the start of that
// cluster. Columns at or beyond the line's display width return the
// line's codepoint count.
func ColumnToChar(line string, dc int) int {
	if dc <= 0 {
		return 0
	}
	col := 0
	i := 0
	for _, r := range line {
		w := RuneWidth(r)
		if col+w > dc {
			return graphemeFloor(line, i)
		}
		col += w
		i++
	}
	return i
}

// NextGrapheme returns the codepoint index of the grapheme cluster
// following the one covering ci, or false if ci is already at or past
// the end of line.
func NextGrapheme(line string, ci int) (int, bool) {
	bounds := graphemeBounds(line)
	for _, b := range bounds {
		if b > ci {
			return b, true
		}
	}
	return 0, false
}

// PrevGrapheme returns the codepoint index of the start of the
// grapheme cluster preceding the one covering ci, or false if ci is
// already at the start of line.
func PrevGrapheme(line string, ci int) (int, bool) {
	bounds := graphemeBounds(line)
	prev := -1
	for _, b := range bounds {
		if b >= ci {
			break
		}
		prev = b
	}
	if prev < 0 {
		return 0, false
	}
	return prev, true
}

// graphemeFloor returns the codepoint index of the start of the
// grapheme cluster that contains ci.
func graphemeFloor(line string, ci int) int {
	bounds := graphemeBounds(line)
	floor := 0
	for _, b := range bounds {
		if b > ci {
			break
		}
		floor = b
	}
	return floor
}

// graphemeBounds returns the codepoint-index boundaries between
// grapheme clusters in line, including 0 and len(line) in runes.
// Combining marks, regional-indicator pairs, and ZWJ emoji sequences
// are each collapsed to a single unit by uniseg's cluster algorithm.
func graphemeBounds(line string) []int {
	if line == "" {
		return []int{0}
	}
	bounds := make([]int, 0, utf8.RuneCountInString(line)+1)
	bounds = append(bounds, 0)
	count := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		count += len(g.Runes())
		bounds = append(bounds, count)
	}
	return bounds
}

// ByteToChar converts a byte offset within line to a codepoint index.
// The offset is clamped to len(line).
func ByteToChar(line string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(line) {
		return utf8.RuneCountInString(line)
	}
	return utf8.RuneCountInString(line[:byteOffset])
}

// CharToByte converts a codepoint index within line to a byte offset.
// Indices at or past the end of line return len(line).
func CharToByte(line string, ci int) int {
	if ci <= 0 {
		return 0
	}
	i := 0
	for idx := range line {
		if i == ci {
			return idx
		}
		i++
	}
	return len(line)
}

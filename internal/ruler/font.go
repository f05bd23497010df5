package ruler

// Tick labels and the angle readout use a tiny 3x5 bitmap font; each glyph
// is 5 rows of 3 bits.
var glyphPatterns = map[rune][5]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b001, 0b001},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

const (
	glyphCols = 3
	glyphRows = 5
)

// glyphPattern returns the pattern for a character, blank when unsupported.
func glyphPattern(ch rune) [5]uint8 {
	if p, ok := glyphPatterns[ch]; ok {
		return p
	}
	return [5]uint8{}
}

// textWidth returns the width of a string in glyph-grid units (before
// scaling): 3 columns per glyph plus 1 column spacing.
func textWidth(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return n*glyphCols + (n - 1)
}

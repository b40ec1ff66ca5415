package viewz

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Buffer is a 2D grid of cells representing a drawable surface.
type Buffer struct {
	cells  []Char
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	cells := make([]Char, width*height)
	empty := EmptyChar()
	for i := range cells {
		cells[i] = empty
	}
	return &Buffer{
		cells:  cells,
		width:  width,
		height: height,
	}
}

// Width returns the buffer width.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *Buffer) Height() int {
	return b.height
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Char {
	if !b.InBounds(x, y) {
		return EmptyChar()
	}
	return b.cells[y*b.width+x]
}

// Set sets the cell at the given coordinates.
// Does nothing if out of bounds.
func (b *Buffer) Set(x, y int, c Char) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(x, y, width, height int, c Char) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			b.Set(x+dx, y+dy, c)
		}
	}
}

// WriteString writes s at x,y, stopping at maxWidth columns. Wide runes take
// two columns; the second is a zero rune. Returns the columns written.
func (b *Buffer) WriteString(x, y int, s string, style Style, maxWidth int) int {
	written := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if written+w > maxWidth || !b.InBounds(x+w-1, y) {
			break
		}
		b.Set(x, y, NewChar(r, style))
		if w == 2 {
			b.Set(x+1, y, NewChar(0, style))
		}
		x += w
		written += w
	}
	return written
}

// Box drawing characters for the rounded card border.
const (
	BoxHorizontal         = '─'
	BoxVertical           = '│'
	BoxRoundedTopLeft     = '╭'
	BoxRoundedTopRight    = '╮'
	BoxRoundedBottomLeft  = '╰'
	BoxRoundedBottomRight = '╯'
)

// BorderStyle defines the characters used for drawing borders.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

// BorderRounded is the card border.
var BorderRounded = BorderStyle{
	Horizontal:  BoxHorizontal,
	Vertical:    BoxVertical,
	TopLeft:     BoxRoundedTopLeft,
	TopRight:    BoxRoundedTopRight,
	BottomLeft:  BoxRoundedBottomLeft,
	BottomRight: BoxRoundedBottomRight,
}

// DrawBorder draws a border around the given rectangle.
func (b *Buffer) DrawBorder(x, y, width, height int, border BorderStyle, style Style) {
	if width < 2 || height < 2 {
		return
	}

	// Corners
	b.Set(x, y, NewChar(border.TopLeft, style))
	b.Set(x+width-1, y, NewChar(border.TopRight, style))
	b.Set(x, y+height-1, NewChar(border.BottomLeft, style))
	b.Set(x+width-1, y+height-1, NewChar(border.BottomRight, style))

	// Horizontal lines
	for i := 1; i < width-1; i++ {
		b.Set(x+i, y, NewChar(border.Horizontal, style))
		b.Set(x+i, y+height-1, NewChar(border.Horizontal, style))
	}

	// Vertical lines
	for i := 1; i < height-1; i++ {
		b.Set(x, y+i, NewChar(border.Vertical, style))
		b.Set(x+width-1, y+i, NewChar(border.Vertical, style))
	}
}

// GetLine returns the content of a single line as a string (trimmed).
func (b *Buffer) GetLine(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var line strings.Builder
	for x := 0; x < b.width; x++ {
		r := b.Get(x, y).Rune
		if r == 0 {
			continue
		}
		line.WriteRune(r)
	}
	return strings.TrimRight(line.String(), " ")
}

// StringTrimmed returns the buffer contents with trailing spaces removed per
// line and trailing empty lines dropped.
func (b *Buffer) StringTrimmed() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.GetLine(y)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Slice returns a copy of rows [from, from+height), padded with empty rows.
func (b *Buffer) Slice(from, height int) *Buffer {
	out := NewBuffer(b.width, height)
	for y := 0; y < height; y++ {
		src := from + y
		if src < 0 || src >= b.height {
			continue
		}
		copy(out.cells[y*b.width:(y+1)*b.width], b.cells[src*b.width:(src+1)*b.width])
	}
	return out
}

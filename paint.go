package viewz

import (
	"fmt"
	"image/color"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Painter draws a widget tree into a Buffer. Cards become rounded boxes with
// one column of horizontal padding, stacked vertically at full width; their
// fill blends toward the theme's card tint by the node's weight.
type Painter struct {
	Theme     Theme
	ImageRows int // max rows per image leaf (two pixels per row)
	GridTile  int // columns per image grid tile

	// Host state reflected in the painting.
	Focus     *Node
	Editing   bool // the focused leaf shows EditValue
	EditValue string
	Frame     string // current busy-indicator frame

	rows map[*Node]int
}

// NewPainter returns a painter with the dark theme.
func NewPainter() *Painter {
	return &Painter{Theme: ThemeDark, ImageRows: 6, GridTile: 12, Frame: "…"}
}

// Paint lays out n at width columns and returns the painted buffer.
func (p *Painter) Paint(n *Node, width int) *Buffer {
	p.rows = make(map[*Node]int)
	buf := NewBuffer(width, p.Measure(n, width))
	buf.FillRect(0, 0, width, buf.Height(), NewChar(' ', DefaultStyle().Background(p.Theme.Base)))
	p.draw(buf, n, 0, 0, width, p.Theme.Base)
	return buf
}

// Measure returns the rows n occupies at width columns.
func (p *Painter) Measure(n *Node, width int) int {
	switch n.Kind {
	case NodeCard:
		h := 2
		for _, c := range n.Children {
			h += p.Measure(c, width-4)
		}
		return h
	case NodeHeader, NodeDrill:
		return 1
	case NodeGrid:
		return p.gridHeight(n, width)
	case NodeLeaf:
		return p.leafHeight(n.Leaf, width)
	}
	return 0
}

// Row returns the row n was painted at by the last Paint.
func (p *Painter) Row(n *Node) (int, bool) {
	y, ok := p.rows[n]
	return y, ok
}

func (p *Painter) draw(buf *Buffer, n *Node, x, y, width int, bg Color) int {
	if p.rows != nil {
		p.rows[n] = y
	}
	if width <= 0 {
		return p.Measure(n, width)
	}
	switch n.Kind {
	case NodeCard:
		h := p.Measure(n, width)
		fill := p.Theme.CardBackground(n.Weight)
		buf.FillRect(x, y, width, h, NewChar(' ', DefaultStyle().Background(fill)))
		buf.DrawBorder(x, y, width, h, BorderRounded, DefaultStyle().Foreground(p.Theme.Border).Background(bg))
		cy := y + 1
		for _, c := range n.Children {
			cy += p.draw(buf, c, x+2, cy, width-4, fill)
		}
		return h
	case NodeHeader:
		buf.WriteString(x, y, n.Text, DefaultStyle().Foreground(p.Theme.Header).Background(bg).Bold(), width)
		return 1
	case NodeDrill:
		st := DefaultStyle().Foreground(p.Theme.Accent).Background(bg)
		if n == p.Focus {
			st = st.Inverse()
		}
		buf.WriteString(x, y, "› "+n.Text, st, width)
		return 1
	case NodeGrid:
		return p.drawGrid(buf, n, x, y, width, bg)
	case NodeLeaf:
		return p.drawLeaf(buf, n, x, y, width, bg)
	}
	return 0
}

func (p *Painter) gridColumns(width int) (cols, tile int) {
	tile = max(p.GridTile, 1)
	cols = max((width+1)/(tile+1), 1)
	if cols == 1 {
		tile = width
	}
	return cols, tile
}

func (p *Painter) gridHeight(n *Node, width int) int {
	cols, tile := p.gridColumns(width)
	h := 0
	for i := 0; i < len(n.Children); i += cols {
		row := 0
		for _, c := range n.Children[i:min(i+cols, len(n.Children))] {
			row = max(row, p.leafHeight(c.Leaf, tile))
		}
		h += row
	}
	return h
}

func (p *Painter) drawGrid(buf *Buffer, n *Node, x, y, width int, bg Color) int {
	cols, tile := p.gridColumns(width)
	cy := y
	for i := 0; i < len(n.Children); i += cols {
		row := 0
		for j, c := range n.Children[i:min(i+cols, len(n.Children))] {
			row = max(row, p.drawLeaf(buf, c, x+j*(tile+1), cy, tile, bg))
		}
		cy += row
	}
	return cy - y
}

func (p *Painter) leafHeight(l *Leaf, width int) int {
	switch l.Kind {
	case LeafImage:
		if img, _ := l.Data.(*Image); img != nil && img.Pixels != nil {
			_, rows := p.imageSize(img, width)
			return rows
		}
		return 1
	case LeafPhotoPicker:
		if img, _ := l.Data.(*Image); img != nil && img.Pixels != nil && !l.Busy {
			_, rows := p.imageSize(img, width)
			return rows + 1
		}
		return 2
	case LeafContact, LeafContactEditor:
		if c, _ := l.Data.(*Contact); c != nil {
			return 1 + len(c.Emails) + len(c.Phones)
		}
		return 1
	case LeafText:
		s, _ := l.Data.(string)
		return strings.Count(s, "\n") + 1
	}
	return 1
}

func (p *Painter) drawLeaf(buf *Buffer, n *Node, x, y, width int, bg Color) int {
	l := n.Leaf
	base := DefaultStyle().Background(bg)
	focus := func(s Style) Style {
		if n == p.Focus {
			return s.Inverse()
		}
		return s
	}
	muted := base.Foreground(p.Theme.Muted).Italic()

	if p.Editing && n == p.Focus {
		buf.WriteString(x, y, runewidth.Truncate("["+p.EditValue+"█]", width, "…"), base.Underline(), width)
		return p.leafHeight(l, width)
	}

	switch l.Kind {
	case LeafImage:
		img, _ := l.Data.(*Image)
		if img == nil || img.Pixels == nil {
			buf.WriteString(x, y, "no data", muted, width)
			return 1
		}
		return p.drawImage(buf, img, x, y, width)
	case LeafPhotoPicker:
		img, _ := l.Data.(*Image)
		rows := 1
		switch {
		case l.Busy:
			buf.WriteString(x, y, p.Frame+" loading", muted, width)
		case img == nil || img.Pixels == nil:
			buf.WriteString(x, y, "no data", muted, width)
		default:
			rows = p.drawImage(buf, img, x, y, width)
		}
		buf.WriteString(x, y+rows, "[ Select Photo ]", focus(base.Foreground(p.Theme.Accent)), width)
		return rows + 1
	case LeafContact, LeafContactEditor:
		c, _ := l.Data.(*Contact)
		if c == nil {
			buf.WriteString(x, y, "+ Add contact", focus(base.Foreground(p.Theme.Accent)), width)
			return 1
		}
		buf.WriteString(x, y, c.FullName(), focus(base.Bold()), width)
		row := 1
		for _, e := range c.Emails {
			buf.WriteString(x, y+row, "✉ "+e, base, width)
			row++
		}
		for _, ph := range c.Phones {
			buf.WriteString(x, y+row, "☎ "+ph, base, width)
			row++
		}
		return row
	case LeafText:
		s, _ := l.Data.(string)
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			buf.WriteString(x, y+i, runewidth.Truncate(line, width, "…"), base, width)
		}
		return len(lines)
	case LeafColor, LeafColorPicker:
		c, _ := l.Data.(color.RGBA)
		w := buf.WriteString(x, y, "███", base.Foreground(FromRGBA(c)), width)
		text := fmt.Sprintf(" #%02X%02X%02X", c.R, c.G, c.B)
		if l.Kind == LeafColorPicker {
			text += " ◂▸"
		}
		buf.WriteString(x+w, y, text, focus(base), width-w)
		return 1
	}

	text, st := p.leafText(l, base, muted)
	buf.WriteString(x, y, runewidth.Truncate(text, width, "…"), focus(st), width)
	return 1
}

// leafText returns the single-line rendition of the simple leaf kinds.
func (p *Painter) leafText(l *Leaf, base, muted Style) (string, Style) {
	switch l.Kind {
	case LeafPlaceholder:
		s, _ := l.Data.(string)
		return s, muted
	case LeafTextField:
		s, _ := l.Data.(string)
		return "[" + s + "]", base.Underline()
	case LeafStepper:
		return fmt.Sprintf("− %v +", l.Data), base
	case LeafDatePicker:
		t, _ := l.Data.(time.Time)
		return "◷ " + t.Format("2006-01-02 15:04"), base
	case LeafToggle:
		if on, _ := l.Data.(bool); on {
			return "[x] On", base
		}
		return "[ ] Off", base
	case LeafMap:
		r, _ := l.Data.(Region)
		return "⌖ " + r.String(), base
	case LeafLink:
		if u, _ := l.Data.(*url.URL); u != nil {
			return u.String(), base.Foreground(p.Theme.Accent).Underline()
		}
		return "", base
	case LeafVideo:
		m, _ := l.Data.(MediaItem)
		return "▶ " + m.String(), base
	case LeafButton:
		s := fmt.Sprintf("[ %v ]", l.Data)
		if l.Busy {
			return s + " " + p.Frame, base.Dim()
		}
		return s, base.Foreground(p.Theme.Accent).Bold()
	case LeafSignature:
		return fmt.Sprint(l.Data), base.Italic()
	}
	return fmt.Sprint(l.Data), base
}

// imageSize returns the columns and rows an image occupies at width,
// preserving aspect with two pixels per row.
func (p *Painter) imageSize(img *Image, width int) (cols, rows int) {
	iw, ih := img.Bounds()
	if iw == 0 || ih == 0 || width <= 0 {
		return 0, 1
	}
	scale := min(float64(width)/float64(iw), float64(2*max(p.ImageRows, 1))/float64(ih))
	cols = max(int(float64(iw)*scale), 1)
	px := max(int(float64(ih)*scale), 2)
	return cols, (px + 1) / 2
}

// drawImage paints half-block pixels: the upper half takes the foreground
// color and the lower half the background.
func (p *Painter) drawImage(buf *Buffer, img *Image, x, y, width int) int {
	cols, rows := p.imageSize(img, width)
	b := img.Pixels.Bounds()
	sample := func(col, py int) Color {
		sx := b.Min.X + col*b.Dx()/cols
		sy := b.Min.Y + py*b.Dy()/(rows*2)
		c := color.RGBAModel.Convert(img.Pixels.At(sx, sy)).(color.RGBA)
		if c.A == 0 {
			return p.Theme.Base
		}
		return FromRGBA(c)
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			st := DefaultStyle().Foreground(sample(col, row*2)).Background(sample(col, row*2+1))
			buf.Set(x+col, y+row, NewChar('▀', st))
		}
	}
	return rows
}

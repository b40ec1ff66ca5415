package viewz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// lipColor converts a terminal color for lipgloss. Default maps to no color.
func lipColor(c Color) lipgloss.TerminalColor {
	switch c.Mode {
	case Color16:
		return lipgloss.Color(strconv.Itoa(int(c.Index)))
	case ColorRGB:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return lipgloss.NoColor{}
}

func lipStyle(s Style) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipColor(s.FG)).
		Background(lipColor(s.BG)).
		Bold(s.Attr.Has(AttrBold)).
		Faint(s.Attr.Has(AttrDim)).
		Italic(s.Attr.Has(AttrItalic)).
		Underline(s.Attr.Has(AttrUnderline)).
		Reverse(s.Attr.Has(AttrInverse))
}

// ANSI renders the buffer as styled terminal text, one line per row.
// Runs of equally styled cells are rendered together.
func (b *Buffer) ANSI() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < b.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := b.Get(0, y).Style
		run.Reset()
		for x := 0; x < b.width; x++ {
			c := b.Get(x, y)
			if c.Rune == 0 {
				continue
			}
			if c.Style != cur {
				out.WriteString(lipStyle(cur).Render(run.String()))
				run.Reset()
				cur = c.Style
			}
			run.WriteRune(c.Rune)
		}
		out.WriteString(lipStyle(cur).Render(run.String()))
	}
	return out.String()
}

package viewz

// Theme provides the colors the terminal host paints with.
// Card backgrounds blend from Base toward Card by the node's visual weight,
// the terminal rendition of background opacity.
type Theme struct {
	Base   Color // screen background
	Card   Color // card tint at full weight
	Border Color // card border
	Header Color // label headings
	Accent Color // drill-down rows, links, focus
	Muted  Color // placeholders and secondary text
}

// ThemeDark is the default theme: yellow cards fading into a dark screen.
var ThemeDark = Theme{
	Base:   Hex(0x1E1E2E),
	Card:   Hex(0x8A7A2A),
	Border: Hex(0x6C6F85),
	Header: Hex(0xF5E0DC),
	Accent: Hex(0xCBA6F7),
	Muted:  Hex(0x7F849C),
}

// ThemeMonochrome uses terminal defaults and attributes only.
var ThemeMonochrome = Theme{
	Base:   DefaultColor(),
	Card:   DefaultColor(),
	Border: DefaultColor(),
	Header: DefaultColor(),
	Accent: DefaultColor(),
	Muted:  BrightBlack,
}

// CardBackground returns the card fill for weight in [0,1].
func (t Theme) CardBackground(weight float64) Color {
	base, ok1 := t.Base.Colorful()
	card, ok2 := t.Card.Colorful()
	if !ok1 || !ok2 {
		return t.Base
	}
	weight = min(max(weight, 0), 1)
	return FromColorful(base.BlendRgb(card, weight))
}

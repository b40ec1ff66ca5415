package viewz

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label is the display label of a value. A synthetic label marks an
// unlabeled tuple position; it is kept for identification but never shown.
type Label struct {
	Text      string
	Synthetic bool
}

// NoLabel is the absent label.
var NoLabel = Label{}

// Named returns a visible label.
func Named(text string) Label {
	return Label{Text: text}
}

// Position returns the synthetic label of tuple position i.
func Position(i int) Label {
	return Label{Text: strconv.Itoa(i), Synthetic: true}
}

// Absent reports whether the label should be treated as "no label":
// empty, synthetic, or nothing left after stripping underscores.
func (l Label) Absent() bool {
	return l.Synthetic || strings.Trim(l.Text, "_ ") == ""
}

var titler = cases.Title(language.Und, cases.NoLower)

// Title returns the capitalized display form: underscores become spaces,
// camelCase is split into words and each word is title-cased.
// Returns "" for absent labels.
func (l Label) Title() string {
	if l.Absent() {
		return ""
	}
	return titler.String(splitWords(l.Text))
}

// TitleOr returns Title, or fallback when the label is absent.
func (l Label) TitleOr(fallback string) string {
	if t := l.Title(); t != "" {
		return t
	}
	return fallback
}

func splitWords(s string) string {
	var b strings.Builder
	rs := []rune(strings.ReplaceAll(s, "_", " "))
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

package viewz

import "math"

// DefaultStep is the visual weight lost per nesting level.
const DefaultStep = 0.15

// Context is the display context of one render call.
type Context struct {
	Depth int
	Step  float64
	Label Label
	Root  bool
}

// RootContext returns the context of the outermost call.
func RootContext(label Label) Context {
	return Context{Step: DefaultStep, Label: label, Root: true}
}

// Weight is max(0, 1 - Step*Depth). It drives background opacity.
func (c Context) Weight() float64 {
	return math.Max(0, 1-c.Step*float64(c.Depth))
}

// Child returns the context of a nested call one level deeper.
func (c Context) Child(label Label) Context {
	return Context{Depth: c.Depth + 1, Step: c.Step, Label: label}
}

// WithLabel returns c with a different label, at the same depth.
func (c Context) WithLabel(label Label) Context {
	c.Label = label
	return c
}

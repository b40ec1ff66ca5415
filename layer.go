package viewz

// Layer is one navigation screen: a title, a builder that is re-run on every
// render pass, and the screen's own scroll and focus position.
type Layer struct {
	Title string
	Build func() *Node

	root    *Node
	buffer  *Buffer
	focus   int
	scrollY int

	// Viewport height (set during layout)
	viewHeight int
	maxScroll  int
}

// NewLayer creates a screen for build.
func NewLayer(title string, build func() *Node) *Layer {
	return &Layer{Title: title, Build: build}
}

// Refresh rebuilds the tree, clamps focus and paints at width columns.
func (l *Layer) Refresh(p *Painter, width, viewHeight int) {
	l.root = l.Build()
	focusable := l.root.Focusable()
	l.focus = min(l.focus, len(focusable)-1)
	l.focus = max(l.focus, 0)
	p.Focus = nil
	if len(focusable) > 0 {
		p.Focus = focusable[l.focus]
	}
	l.buffer = p.Paint(l.root, width)
	l.viewHeight = viewHeight
	l.updateMaxScroll()
	if p.Focus != nil {
		if row, ok := p.Row(p.Focus); ok {
			l.ensureVisible(row)
		}
	}
}

// Root returns the tree built by the last Refresh.
func (l *Layer) Root() *Node {
	return l.root
}

// Buffer returns the painted buffer of the last Refresh.
func (l *Layer) Buffer() *Buffer {
	return l.buffer
}

// Focused returns the focused node, or nil.
func (l *Layer) Focused() *Node {
	if l.root == nil {
		return nil
	}
	f := l.root.Focusable()
	if l.focus < 0 || l.focus >= len(f) {
		return nil
	}
	return f[l.focus]
}

// FocusIndex returns the index of the focused node among the focusable ones.
func (l *Layer) FocusIndex() int {
	return l.focus
}

// MoveFocus moves focus by delta, clamped to the focusable nodes.
func (l *Layer) MoveFocus(delta int) {
	if l.root == nil {
		return
	}
	n := len(l.root.Focusable())
	l.focus = min(max(l.focus+delta, 0), max(n-1, 0))
}

// SetFocus focuses the i-th focusable node.
func (l *Layer) SetFocus(i int) {
	l.focus = 0
	l.MoveFocus(i)
}

// updateMaxScroll recalculates the maximum scroll position.
func (l *Layer) updateMaxScroll() {
	if l.buffer == nil || l.viewHeight <= 0 {
		l.maxScroll = 0
		return
	}
	l.maxScroll = max(l.buffer.Height()-l.viewHeight, 0)
	// Clamp current scroll to new bounds
	l.scrollY = min(l.scrollY, l.maxScroll)
}

func (l *Layer) ensureVisible(row int) {
	if row < l.scrollY {
		l.scrollY = row
	} else if l.viewHeight > 0 && row >= l.scrollY+l.viewHeight {
		l.scrollY = row - l.viewHeight + 1
	}
	l.scrollY = min(max(l.scrollY, 0), l.maxScroll)
}

// ScrollBy scrolls the viewport by delta rows.
func (l *Layer) ScrollBy(delta int) {
	l.scrollY = min(max(l.scrollY+delta, 0), l.maxScroll)
}

// ScrollY returns the current scroll position.
func (l *Layer) ScrollY() int {
	return l.scrollY
}

// View returns the visible rows of the painted buffer.
func (l *Layer) View() *Buffer {
	if l.buffer == nil {
		return NewBuffer(0, 0)
	}
	h := l.viewHeight
	if h <= 0 {
		h = l.buffer.Height()
	}
	return l.buffer.Slice(l.scrollY, h)
}

// Stack is the navigation stack of screens. It implements Navigator.
type Stack struct {
	layers []*Layer
}

// NewStack creates a stack whose root screen can never be popped.
func NewStack(title string, build func() *Node) *Stack {
	return &Stack{layers: []*Layer{NewLayer(title, build)}}
}

// Push implements Navigator.
func (s *Stack) Push(title string, build func() *Node) {
	s.layers = append(s.layers, NewLayer(title, build))
}

// Pop implements Navigator. The root screen stays.
func (s *Stack) Pop() bool {
	if len(s.layers) <= 1 {
		return false
	}
	s.layers = s.layers[:len(s.layers)-1]
	return true
}

// Top returns the visible screen.
func (s *Stack) Top() *Layer {
	return s.layers[len(s.layers)-1]
}

// Depth returns the number of screens.
func (s *Stack) Depth() int {
	return len(s.layers)
}

// Titles returns the screen titles from the root, for a breadcrumb.
func (s *Stack) Titles() []string {
	out := make([]string, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Title
	}
	return out
}

// LivePath returns a builder for the screen behind the index-th drill-down of
// parent's tree. Each call rebuilds the parent first, so the pushed screen
// reflects the current state of its ancestors. It falls back to open when the
// parent no longer has that drill-down.
func LivePath(parent func() *Node, index int, open func() *Node) func() *Node {
	return func() *Node {
		i := 0
		for n := range parent().Walk() {
			if n.Kind != NodeDrill || n.Open == nil {
				continue
			}
			if i == index {
				return n.Open()
			}
			i++
		}
		return open()
	}
}

// drillIndex returns the position of drill among root's drill-downs.
func drillIndex(root, drill *Node) int {
	i := 0
	for n := range root.Walk() {
		if n == drill {
			return i
		}
		if n.Kind == NodeDrill && n.Open != nil {
			i++
		}
	}
	return -1
}

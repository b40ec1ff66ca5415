package viewz

import "iter"

// NodeKind identifies the role of a Node in the widget tree.
type NodeKind uint8

const (
	// NodeCard is the uniform container: padding, background at the node's
	// weight, rounded corners, full width. Exactly one per recursive call.
	NodeCard NodeKind = iota
	// NodeHeader is a label heading.
	NodeHeader
	// NodeLeaf is a terminal widget drawn by the host.
	NodeLeaf
	// NodeGrid lays out its leaf children in adaptive columns.
	NodeGrid
	// NodeDrill is a selectable element that pushes a titled screen.
	NodeDrill
)

var nodeKindNames = [...]string{"card", "header", "leaf", "grid", "drill"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// LeafKind is the enumerated contract between the core and host leaf widgets:
// each kind names the data it carries and whether it accepts writes.
type LeafKind uint8

const (
	LeafText          LeafKind = iota // string
	LeafPlaceholder                   // string ("None")
	LeafTextField                     // string, writable
	LeafStepper                       // int, writable
	LeafDatePicker                    // time.Time, writable
	LeafToggle                        // bool, writable
	LeafColorPicker                   // color.RGBA, writable
	LeafColor                         // color.RGBA
	LeafMap                           // Region, writable when Set != nil
	LeafImage                         // *Image, may be nil for "no data"
	LeafLink                          // *url.URL
	LeafVideo                         // MediaItem
	LeafContact                       // *Contact
	LeafContactEditor                 // *Contact (nil allowed), writable
	LeafPhotoPicker                   // *Image of the current selection, writable with *PhotoItem
	LeafButton                        // string caption, writable with Action
	LeafSignature                     // Signature
)

var leafKindNames = [...]string{
	"text", "placeholder", "text-field", "stepper", "date-picker", "toggle",
	"color-picker", "color", "map", "image", "link", "video", "contact",
	"contact-editor", "photo-picker", "button", "signature",
}

func (k LeafKind) String() string {
	if int(k) < len(leafKindNames) {
		return leafKindNames[k]
	}
	return "unknown"
}

// Leaf is the payload of a NodeLeaf.
type Leaf struct {
	Kind LeafKind
	Data any

	// Set writes a new value back through the originating cell. Nil for
	// read-only leaves. Returns false when the write was rejected.
	Set func(any) bool

	// Busy shows a progress indicator; Disabled ignores activation.
	Busy     bool
	Disabled bool
}

// Node is one element of the declarative widget tree.
type Node struct {
	Kind     NodeKind
	Depth    int
	Weight   float64
	Text     string
	Leaf     *Leaf
	Children []*Node

	// Open builds the pushed screen of a NodeDrill. It re-evaluates the
	// underlying producer on every call.
	Open func() *Node
}

// Interactive reports whether the host should make the node focusable.
func (n *Node) Interactive() bool {
	switch n.Kind {
	case NodeDrill:
		return n.Open != nil
	case NodeLeaf:
		return n.Leaf.Set != nil && !n.Leaf.Disabled
	}
	return false
}

// Walk yields the node and its descendants in paint order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Focusable returns the interactive nodes in paint order.
func (n *Node) Focusable() []*Node {
	var out []*Node
	for c := range n.Walk() {
		if c.Interactive() {
			out = append(out, c)
		}
	}
	return out
}

// Cards returns the direct card children of n.
func (n *Node) Cards() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == NodeCard {
			out = append(out, c)
		}
	}
	return out
}

// Header returns the header text of a card, or "".
func (n *Node) Header() string {
	for _, c := range n.Children {
		if c.Kind == NodeHeader {
			return c.Text
		}
	}
	return ""
}

// Activate pushes the drill-down screen of n onto nav.
func (n *Node) Activate(nav Navigator) bool {
	if n.Kind != NodeDrill || n.Open == nil {
		return false
	}
	nav.Push(n.Text, n.Open)
	return true
}

// Navigator is the host navigation primitive used by drill-down nodes.
type Navigator interface {
	Push(title string, build func() *Node)
	Pop() bool
}

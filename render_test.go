package viewz

import (
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type threeFields struct {
	A int
	B string
	C bool
}

// countCards returns the number of card layers from n down to the first leaf.
func countCards(n *Node) int {
	depth := 0
	for n != nil {
		if n.Kind == NodeCard {
			depth++
		}
		var next *Node
		for _, c := range n.Children {
			if c.Kind != NodeHeader {
				next = c
				break
			}
		}
		n = next
	}
	return depth
}

func firstLeaf(n *Node) *Leaf {
	for c := range n.Walk() {
		if c.Kind == NodeLeaf {
			return c.Leaf
		}
	}
	return nil
}

func render(v any) *Node {
	return NewRenderer(nil).RenderRoot(func() any { return v })
}

// treeOpts ignores drill-down builders, which are never equal as funcs.
var treeOpts = cmp.Options{
	cmpopts.IgnoreFields(Node{}, "Open"),
	cmpopts.IgnoreFields(Leaf{}, "Set"),
}

func TestRenderRootExpands(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		root := render(threeFields{A: 1, B: "b", C: true})
		if root.Kind != NodeCard {
			t.Fatalf("root kind = %v", root.Kind)
		}
		cards := root.Cards()
		if len(cards) != 3 {
			t.Fatalf("got %d child cards, want 3", len(cards))
		}
		for i, c := range cards {
			if got := countCards(c); got != 1 {
				t.Errorf("child %d wrapped %d times, want 1", i, got)
			}
			if c.Depth != 1 {
				t.Errorf("child %d depth = %d, want 1", i, c.Depth)
			}
		}
		if got := cards[1].Header(); got != "B" {
			t.Errorf("header = %q, want B", got)
		}
	})

	t.Run("labeled root still expands", func(t *testing.T) {
		r := NewRenderer(nil)
		root := r.Render(func() any { return threeFields{} }, r.RootContext(Named("record")))
		if got := root.Header(); got != "Record" {
			t.Errorf("header = %q", got)
		}
		if len(root.Cards()) != 3 {
			t.Errorf("got %d child cards, want 3", len(root.Cards()))
		}
	})

	t.Run("tuple positions carry no headers", func(t *testing.T) {
		root := render(Tuple(1, "two"))
		for _, c := range root.Cards() {
			if h := c.Header(); h != "" {
				t.Errorf("tuple slot has header %q", h)
			}
		}
	})
}

func TestRenderDrillDown(t *testing.T) {
	root := render(Record("inner", threeFields{A: 1}))
	cards := root.Cards()
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	drill := cards[0].Children[0]
	if drill.Kind != NodeDrill {
		t.Fatalf("child kind = %v, want drill", drill.Kind)
	}
	if drill.Text != "Inner" {
		t.Errorf("drill text = %q, want Inner", drill.Text)
	}
	if cards[0].Header() != "" {
		t.Error("drill card repeats the label as a header")
	}

	var nav Stack
	nav.layers = []*Layer{NewLayer("root", func() *Node { return root })}
	if !drill.Activate(&nav) {
		t.Fatal("activate failed")
	}
	screen := nav.Top().Build()
	if nav.Top().Title != "Inner" {
		t.Errorf("title = %q", nav.Top().Title)
	}
	if len(screen.Cards()) != 3 {
		t.Errorf("pushed screen has %d children, want 3", len(screen.Cards()))
	}
	if screen.Header() != "" {
		t.Errorf("pushed screen header = %q, want none", screen.Header())
	}
	if screen.Depth != 2 {
		t.Errorf("pushed screen depth = %d, want 2", screen.Depth)
	}

	t.Run("unlabeled nested aggregate expands", func(t *testing.T) {
		root := render(Tuple(threeFields{}))
		inner := root.Cards()[0]
		if len(inner.Cards()) != 3 {
			t.Errorf("got %d cards, want 3", len(inner.Cards()))
		}
	})

	t.Run("live path reflects current state", func(t *testing.T) {
		v := threeFields{A: 1}
		r := NewRenderer(nil)
		build := func() *Node { return r.RenderRoot(func() any { return Record("inner", v) }) }
		drill := build().Cards()[0].Children[0]
		screen := LivePath(build, 0, drill.Open)
		v.A = 42
		if got := firstLeaf(screen().Cards()[0]).Data; got != "42" {
			t.Errorf("A = %v, want 42", got)
		}
		if got := firstLeaf(drill.Open().Cards()[0]).Data; got != "1" {
			t.Errorf("captured A = %v, want 1", got)
		}
	})
}

func TestRenderMapping(t *testing.T) {
	foo := "barz"
	m := map[string]*string{"hello": &foo, "foo": nil, "alpha": &foo}

	first := render(m)
	second := render(m)
	if diff := cmp.Diff(first, second, treeOpts); diff != "" {
		t.Errorf("re-render differs (-first +second):\n%s", diff)
	}

	var headers []string
	for _, c := range first.Cards() {
		headers = append(headers, c.Header())
	}
	if diff := cmp.Diff([]string{"Alpha", "Foo", "Hello"}, headers); diff != "" {
		t.Errorf("headers (-want +got):\n%s", diff)
	}

	absent := firstLeaf(first.Cards()[1])
	if absent.Kind != LeafPlaceholder || absent.Data != "None" {
		t.Errorf("absent entry = %v %v, want placeholder None", absent.Kind, absent.Data)
	}
}

func TestRenderWeight(t *testing.T) {
	v := Tuple(Tuple(Tuple(Tuple(Tuple(Tuple(Tuple(Tuple(1))))))))
	root := render(v)
	for n := range root.Walk() {
		want := max(0, 1-0.15*float64(n.Depth))
		if d := n.Weight - want; d > 1e-9 || d < -1e-9 {
			t.Errorf("depth %d weight = %v, want %v", n.Depth, n.Weight, want)
		}
		if n.Weight < 0 {
			t.Errorf("negative weight at depth %d", n.Depth)
		}
	}

	r := NewRenderer(nil).Step(0.5)
	deep := r.RenderRoot(func() any { return Tuple(Tuple(Tuple(1))) })
	for n := range deep.Walk() {
		if n.Depth >= 2 && n.Weight != 0 {
			t.Errorf("depth %d weight = %v, want 0", n.Depth, n.Weight)
		}
	}
}

func TestRenderCells(t *testing.T) {
	t.Run("bool cell is a toggle", func(t *testing.T) {
		c := NewCell(false)
		leaf := firstLeaf(render(c))
		if leaf.Kind != LeafToggle {
			t.Fatalf("kind = %v, want toggle", leaf.Kind)
		}
		if !leaf.Set(true) || c.Get() != true {
			t.Error("write through toggle failed")
		}
	})

	t.Run("conditional string rejects long write", func(t *testing.T) {
		c := NewCell("Foo")
		produce := func() any { return c.Conditionally(MaxLen(10)) }
		r := NewRenderer(nil)
		leaf := firstLeaf(r.RenderRoot(produce))
		if leaf.Kind != LeafTextField {
			t.Fatalf("kind = %v", leaf.Kind)
		}
		if leaf.Set("hello world") {
			t.Error("11 characters accepted")
		}
		if got := firstLeaf(r.RenderRoot(produce)).Data; got != "Foo" {
			t.Errorf("displayed %v, want Foo", got)
		}
		if leaf.Set(42) {
			t.Error("wrong type accepted")
		}
	})

	t.Run("subscribes once per cell", func(t *testing.T) {
		c := NewCell(1)
		r := NewRenderer(nil)
		changes := 0
		r.OnChange(func() { changes++ })
		produce := func() any { return Tuple(c, c.Conditionally(InRange(0, 9))) }
		r.RenderRoot(produce)
		r.RenderRoot(produce)
		if r.Watching() != 1 || c.Listeners() != 1 {
			t.Errorf("watching %d, listeners %d, want 1", r.Watching(), c.Listeners())
		}
		c.Set(2)
		if changes != 1 {
			t.Errorf("changes = %d, want 1", changes)
		}
		r.Close()
		if c.Listeners() != 0 {
			t.Errorf("listeners after close = %d", c.Listeners())
		}
	})

	t.Run("action button", func(t *testing.T) {
		c := NewActionCell()
		r := NewRenderer(nil)
		produce := func() any { return Record("incrementBaz", c) }
		card := r.RenderRoot(produce).Cards()[0]
		if card.Header() != "" {
			t.Error("button card has a header")
		}
		leaf := firstLeaf(card)
		if leaf.Kind != LeafButton || leaf.Data != "Increment Baz" {
			t.Fatalf("leaf = %v %v", leaf.Kind, leaf.Data)
		}
		leaf.Set(nil)
		busy := firstLeaf(r.RenderRoot(produce))
		if !busy.Busy || !busy.Disabled {
			t.Error("beginning button not busy and disabled")
		}
		c.Set(ActionIdle)
		if l := firstLeaf(r.RenderRoot(produce)); l.Busy || l.Disabled {
			t.Error("idle button busy")
		}
	})

	t.Run("published value renders current contents", func(t *testing.T) {
		p := NewPublished(1)
		r := NewRenderer(nil)
		produce := func() any { return Record("_baz", p) }
		card := r.RenderRoot(produce).Cards()[0]
		if card.Header() != "Baz" {
			t.Errorf("header = %q", card.Header())
		}
		p.Publish(7)
		if got := firstLeaf(r.RenderRoot(produce)).Data; got != "7" {
			t.Errorf("text = %v, want 7", got)
		}
	})

	t.Run("unregistered cell is read-only", func(t *testing.T) {
		leaf := firstLeaf(render(NewCell(1.5)))
		if leaf.Kind != LeafText || leaf.Set != nil {
			t.Errorf("leaf = %v, writable %v", leaf.Kind, leaf.Set != nil)
		}
	})
}

func TestRenderImageGrid(t *testing.T) {
	px := image.NewRGBA(image.Rect(0, 0, 2, 2))
	imgs := []*Image{{Name: "a", Pixels: px}, {Name: "b", Pixels: px}, {Name: "c", Pixels: px}}
	root := render(imgs)
	var grid *Node
	headers := 0
	for n := range root.Walk() {
		switch n.Kind {
		case NodeGrid:
			grid = n
		case NodeHeader:
			headers++
		}
	}
	if grid == nil {
		t.Fatal("no grid")
	}
	if len(grid.Children) != 3 {
		t.Errorf("grid has %d children, want 3", len(grid.Children))
	}
	for _, c := range grid.Children {
		if c.Kind != NodeLeaf || c.Leaf.Kind != LeafImage {
			t.Errorf("grid child %v", c.Kind)
		}
	}
	if headers != 0 {
		t.Errorf("%d headers in image grid", headers)
	}

	t.Run("mixed sequence recurses", func(t *testing.T) {
		root := render([]any{&Image{Name: "a"}, 3})
		for n := range root.Walk() {
			if n.Kind == NodeGrid {
				t.Error("mixed sequence rendered as a grid")
			}
		}
	})
}

func TestRenderLeaves(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  LeafKind
		data  any
	}{
		{"int", 3, LeafText, "3"},
		{"string", "hi", LeafText, "hi"},
		{"nil", nil, LeafPlaceholder, "None"},
		{"nil pointer", (*threeFields)(nil), LeafPlaceholder, "None"},
		{"function", func(int) int { return 8 }, LeafSignature, Signature("(int) -> int")},
		{"procedure", func() {}, LeafSignature, Signature("() -> ()")},
		{"empty slice", []int{}, LeafText, "[]"},
		{"empty struct", struct{}{}, LeafText, "struct {}{}"},
		{"media", MediaItem{Title: "clip"}, LeafVideo, MediaItem{Title: "clip"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := render(tt.value)
			if got := countCards(root); got != 1 {
				t.Errorf("wrapped %d times, want 1", got)
			}
			leaf := firstLeaf(root)
			if leaf.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", leaf.Kind, tt.kind)
			}
			if diff := cmp.Diff(tt.data, leaf.Data); diff != "" {
				t.Errorf("data (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSignature(t *testing.T) {
	tests := []struct {
		in   string
		want Signature
		ok   bool
	}{
		{"func(int) int", "(int) -> int", true},
		{"func(int, string) (bool, error)", "(int, string) -> (bool, error)", true},
		{"func()", "() -> ()", true},
		{"int", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSignature(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseSignature(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

type customBadge struct{ text string }

func (b customBadge) RenderView(r *Renderer, ctx Context) *Node {
	return r.Chrome(ctx, LeafNode(ctx, LeafText, "badge:"+b.text, nil))
}

func TestRenderCustom(t *testing.T) {
	root := render(Record("badge", customBadge{"x"}))
	card := root.Cards()[0]
	if card.Header() != "Badge" {
		t.Errorf("header = %q", card.Header())
	}
	if got := countCards(card); got != 1 {
		t.Errorf("wrapped %d times, want 1", got)
	}
	if got := firstLeaf(card).Data; got != "badge:x" {
		t.Errorf("data = %v", got)
	}
}

type ringNode struct {
	Name string
	Next *ringNode
}

func TestRenderCycle(t *testing.T) {
	a := &ringNode{Name: "a"}
	b := &ringNode{Name: "b", Next: a}
	a.Next = b

	root := render(a)
	if got := firstLeaf(root).Data; got != "a" {
		t.Errorf("first leaf = %v, want a", got)
	}
	var drill *Node
	for n := range root.Walk() {
		if n.Kind == NodeDrill {
			drill = n
		}
	}
	if drill == nil || drill.Text != "Next" {
		t.Fatalf("drill = %+v", drill)
	}

	var texts []string
	for n := range drill.Open().Walk() {
		if n.Kind == NodeLeaf {
			texts = append(texts, fmt.Sprint(n.Leaf.Data))
		}
	}
	if diff := cmp.Diff([]string{"b", "↺ *viewz.ringNode"}, texts); diff != "" {
		t.Errorf("opened screen (-want +got):\n%s", diff)
	}
}

func TestRenderNilObservables(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"cell", (*Cell[string])(nil)},
		{"published", (*Published[int])(nil)},
		{"in a mapping", Mapping{Entries: []MapEntry{{Key: "p", Value: (*Published[int])(nil)}}}},
		{"in a sequence", Sequence{Elems: []Value{(*Cell[int])(nil)}}},
		{"in a record", Structured{Fields: []Field{{Label: Named("c"), Value: (*Cell[bool])(nil)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := firstLeaf(render(tt.value))
			if leaf.Kind != LeafPlaceholder || leaf.Data != Placeholder {
				t.Errorf("leaf = %v %v, want placeholder", leaf.Kind, leaf.Data)
			}
		})
	}
}

func TestRenderMappingCollidingKeys(t *testing.T) {
	for range 50 {
		var got []any
		for n := range render(map[any]int{1: 1, "1": 2}).Walk() {
			if n.Kind == NodeLeaf {
				got = append(got, n.Leaf.Data)
			}
		}
		if diff := cmp.Diff([]any{"1", "2"}, got); diff != "" {
			t.Fatalf("leaf order (-want +got):\n%s", diff)
		}
	}
}

type plainHandler func()

func TestRenderRecoveredErrors(t *testing.T) {
	logs := observeLogs(t)
	render(Mapping{Entries: []MapEntry{{Key: "gone"}}})
	render(plainHandler(func() {}))

	var kinds []ErrorKind
	for _, e := range logs.All() {
		for _, f := range e.Context {
			if err, ok := f.Interface.(*Error); ok {
				kinds = append(kinds, err.Kind)
			}
		}
	}
	if diff := cmp.Diff([]ErrorKind{AbsentKey, ClassificationMiss}, kinds); diff != "" {
		t.Errorf("logged kinds (-want +got):\n%s", diff)
	}
}

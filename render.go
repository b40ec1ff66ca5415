package viewz

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Placeholder is the text shown for absent optionals and mapping entries.
const Placeholder = "None"

// Renderer turns arbitrary values into widget trees.
//
// A Renderer is not safe for concurrent use; it belongs to the goroutine that
// owns the display. Asynchronous leaves hand their results back through Post.
type Renderer struct {
	reg      *Registry
	step     float64
	ctx      context.Context
	post     func(func())
	onChange func()

	watched map[any]watch
	photos  map[any]*photoState
}

type watch struct {
	obs Observable
	tok Token
}

// NewRenderer creates a renderer over reg. A nil reg uses DefaultRegistry.
func NewRenderer(reg *Registry) *Renderer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Renderer{
		reg:     reg,
		step:    DefaultStep,
		ctx:     context.Background(),
		post:    func(fn func()) { fn() },
		watched: make(map[any]watch),
		photos:  make(map[any]*photoState),
	}
}

// Step sets the weight lost per nesting level.
func (r *Renderer) Step(s float64) *Renderer {
	r.step = s
	return r
}

// Post sets how asynchronous results are marshalled back to the owning
// goroutine. The default runs them in place, which is only correct for hosts
// without a separate UI goroutine.
func (r *Renderer) Post(fn func(func())) *Renderer {
	r.post = fn
	return r
}

// OnChange sets the callback fired when any watched value changes.
func (r *Renderer) OnChange(fn func()) *Renderer {
	r.onChange = fn
	return r
}

// Context sets the context handed to asynchronous loads.
func (r *Renderer) Context(ctx context.Context) *Renderer {
	r.ctx = ctx
	return r
}

// Registry returns the dispatch registry.
func (r *Renderer) Registry() *Registry {
	return r.reg
}

// RootContext returns the context for the outermost call.
func (r *Renderer) RootContext(label Label) Context {
	c := RootContext(label)
	c.Step = r.step
	return c
}

// RenderRoot renders produce as the screen root.
func (r *Renderer) RenderRoot(produce func() any) *Node {
	return r.Render(produce, r.RootContext(NoLabel))
}

// Render evaluates produce once and builds the subtree for its value.
func (r *Renderer) Render(produce func() any, ctx Context) *Node {
	return r.render(produce(), produce, ctx)
}

func (r *Renderer) render(v any, produce func() any, ctx Context) *Node {
	key := v
	switch p := v.(type) {
	case Primitive:
		key = p.V
	case Structured:
		if p.Origin != nil {
			key = p.Origin
		}
	}
	if e, ok := r.reg.Resolve(key); ok {
		return e.Render(r, key, ctx)
	}

	val := Introspect(v)
	if opt, ok := val.(Optional); ok {
		if opt.Absent() {
			return r.Chrome(ctx, r.placeholder(ctx))
		}
		return r.render(opt.Some, func() any { return unwrapOptional(produce()) }, ctx)
	}

	switch val := val.(type) {
	case Sequence:
		if imgs, ok := imageSequence(val); ok {
			return r.grid(imgs, ctx)
		}
		if len(val.Elems) > 0 {
			return r.aggregate(sequenceFields(val), produce, ctx)
		}
	case Mapping:
		if len(val.Entries) > 0 {
			return r.mapping(val, ctx)
		}
	case Function:
		if sig, ok := ParseSignature(val.TypeName); ok {
			return r.render(sig, func() any { return sig }, ctx)
		}
		err := NewError(ClassificationMiss).GoType(val.TypeName).Detail("unparsed function type").Build()
		Logger().Debug("rendering as text", zap.Error(err))
	case Structured:
		if len(val.Fields) > 0 {
			return r.aggregate(val.Fields, produce, ctx)
		}
	}
	return r.Chrome(ctx, LeafNode(ctx, LeafText, Describe(val), nil))
}

// Chrome wraps children in the uniform card for ctx, preceded by the label
// heading when ctx has a visible label. Custom renderers use it so their
// output composes with the structural path.
func (r *Renderer) Chrome(ctx Context, children ...*Node) *Node {
	w := ctx.Weight()
	card := &Node{Kind: NodeCard, Depth: ctx.Depth, Weight: w}
	if t := ctx.Label.Title(); t != "" {
		card.Children = append(card.Children, &Node{Kind: NodeHeader, Depth: ctx.Depth, Weight: w, Text: t})
	}
	card.Children = append(card.Children, children...)
	return card
}

// LeafNode builds a leaf at ctx's depth.
func LeafNode(ctx Context, kind LeafKind, data any, set func(any) bool) *Node {
	return &Node{
		Kind:   NodeLeaf,
		Depth:  ctx.Depth,
		Weight: ctx.Weight(),
		Leaf:   &Leaf{Kind: kind, Data: data, Set: set},
	}
}

func (r *Renderer) placeholder(ctx Context) *Node {
	return LeafNode(ctx, LeafPlaceholder, Placeholder, nil)
}

// aggregate applies the expand-or-collapse policy to a composite.
func (r *Renderer) aggregate(fields []Field, produce func() any, ctx Context) *Node {
	if ctx.Root || ctx.Label.Absent() {
		children := make([]*Node, len(fields))
		for i, f := range fields {
			child := f.Value
			children[i] = r.render(child, func() any { return child }, ctx.Child(f.Label))
		}
		return r.Chrome(ctx, children...)
	}

	title := ctx.Label.TitleOr("Some")
	screen := Context{Depth: ctx.Depth + 1, Step: ctx.Step, Label: NoLabel}
	drill := &Node{
		Kind:   NodeDrill,
		Depth:  ctx.Depth,
		Weight: ctx.Weight(),
		Text:   title,
		Open: func() *Node {
			return r.Render(produce, screen)
		},
	}
	return r.Chrome(ctx.WithLabel(NoLabel), drill)
}

func (r *Renderer) mapping(m Mapping, ctx Context) *Node {
	entries := slices.Clone(m.Entries)
	sortEntries(entries)
	children := make([]*Node, len(entries))
	for i, e := range entries {
		cctx := ctx.Child(Named(e.Key))
		if e.Value == nil {
			err := NewError(AbsentKey).Detail("mapping key %q", e.Key).Build()
			Logger().Debug("rendering placeholder", zap.Error(err))
			children[i] = r.Chrome(cctx, r.placeholder(cctx))
			continue
		}
		child := e.Value
		children[i] = r.render(child, func() any { return child }, cctx)
	}
	return r.Chrome(ctx, children...)
}

func (r *Renderer) grid(imgs []*Image, ctx Context) *Node {
	g := &Node{Kind: NodeGrid, Depth: ctx.Depth, Weight: ctx.Weight()}
	for _, img := range imgs {
		g.Children = append(g.Children, LeafNode(ctx, LeafImage, img, nil))
	}
	return r.Chrome(ctx, g)
}

// Watch subscribes the renderer to o once; later calls for the same backing
// value are ignored. Changes fire the OnChange callback.
func (r *Renderer) Watch(o Observable) {
	var key any = o
	if id, ok := o.(interface{ Identity() any }); ok {
		key = id.Identity()
	}
	if _, ok := r.watched[key]; ok {
		return
	}
	tok := o.Subscribe(r.changed)
	r.watched[key] = watch{obs: o, tok: tok}
}

// Watching returns the number of distinct values the renderer subscribes to.
func (r *Renderer) Watching() int {
	return len(r.watched)
}

// Close drops every subscription and forgets the photo loads. Loads still
// in flight finish without effect.
func (r *Renderer) Close() {
	for key, w := range r.watched {
		w.obs.Unsubscribe(w.tok)
		delete(r.watched, key)
	}
	for _, st := range r.photos {
		st.item = nil
	}
	clear(r.photos)
}

func (r *Renderer) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

var signatureRe = regexp.MustCompile(`^func\((.*)\)\s*(.*)$`)

// ParseSignature turns a Go func type name such as "func(int, string) (bool, error)"
// into "(int, string) -> (bool, error)". Funcs without results map to "()".
func ParseSignature(typeName string) (Signature, bool) {
	m := signatureRe.FindStringSubmatch(typeName)
	if m == nil {
		return "", false
	}
	result := strings.TrimSpace(m[2])
	if result == "" {
		result = "()"
	}
	return Signature("(" + m[1] + ") -> " + result), true
}

// Describe returns the default textual representation of a value.
func Describe(v Value) string {
	switch v := v.(type) {
	case Primitive:
		if t, ok := v.V.(time.Time); ok {
			return t.Format(time.DateTime)
		}
		return v.String()
	case Sequence:
		return "[]"
	case Mapping:
		return "map[]"
	case Structured:
		return v.TypeName + "{}"
	case Function:
		return v.TypeName
	case Optional:
		if v.Absent() {
			return Placeholder
		}
		return Describe(v.Some)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func imageSequence(s Sequence) ([]*Image, bool) {
	if len(s.Elems) == 0 {
		return nil, false
	}
	imgs := make([]*Image, len(s.Elems))
	for i, e := range s.Elems {
		img, ok := e.(*Image)
		if !ok || img == nil {
			return nil, false
		}
		imgs[i] = img
	}
	return imgs, true
}

func sequenceFields(s Sequence) []Field {
	fields := make([]Field, len(s.Elems))
	for i, e := range s.Elems {
		fields[i] = Field{Label: Position(i), Value: e}
	}
	return fields
}

func unwrapOptional(v any) any {
	if opt, ok := Introspect(v).(Optional); ok {
		if opt.Absent() {
			return nil
		}
		return opt.Some
	}
	return v
}

package viewz

import (
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Tier orders registry entries by decreasing specificity.
type Tier uint8

const (
	TierCell       Tier = iota // exact mutable-cell-of-T types
	TierLeaf                   // exact read-only leaf types
	TierCapability             // interface capabilities
)

var tierNames = [...]string{"cell", "leaf", "capability"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// RenderFunc renders a matched value with the current context. It owns all
// nesting decisions for the subtree and must wrap its output with Chrome.
type RenderFunc func(r *Renderer, v any, ctx Context) *Node

// Entry is one dispatch registration. Exactly one of Type (an exact runtime
// type) or Capability (an interface type) is set.
type Entry struct {
	Name       string
	Tier       Tier
	Type       reflect.Type
	Capability reflect.Type
	Render     RenderFunc
}

// Matches reports whether v satisfies the entry.
func (e Entry) Matches(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if e.Type != nil {
		return t == e.Type
	}
	return e.Capability != nil && t.Implements(e.Capability)
}

// Exact builds an entry for the exact runtime type T.
func Exact[T any](name string, tier Tier, render func(r *Renderer, v T, ctx Context) *Node) Entry {
	return Entry{
		Name: name,
		Tier: tier,
		Type: reflect.TypeFor[T](),
		Render: func(r *Renderer, v any, ctx Context) *Node {
			return render(r, v.(T), ctx)
		},
	}
}

// Capability builds an entry matching every type that implements interface I.
func Capability[I any](name string, render func(r *Renderer, v I, ctx Context) *Node) Entry {
	return Entry{
		Name:       name,
		Tier:       TierCapability,
		Capability: reflect.TypeFor[I](),
		Render: func(r *Renderer, v any, ctx Context) *Node {
			return render(r, v.(I), ctx)
		},
	}
}

// Registry is a priority-ordered capability-to-renderer lookup table.
// Resolution is pure: it never subscribes or renders.
type Registry struct {
	entries []Entry
	exact   map[reflect.Type]Entry
	caps    []Entry

	overlaps sync.Map // reflect.Type already reported as matching two capabilities
}

// NewRegistry validates entries and builds a registry. It returns a
// ConfigurationError when an entry is incomplete or when two entries could
// match the same value within the same order of specificity.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{exact: make(map[reflect.Type]Entry)}
	for _, e := range entries {
		if err := r.add(e); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(r.entries, func(a, b Entry) int { return int(a.Tier) - int(b.Tier) })
	Logger().Debug("registry built",
		zap.Int("exact", len(r.exact)),
		zap.Int("capabilities", len(r.caps)))
	return r, nil
}

// MustRegistry is like NewRegistry but panics on configuration errors.
func MustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(e Entry) error {
	switch {
	case e.Render == nil:
		return NewError(ConfigurationError).Entry(e.Name).Detail("missing render function").Build()
	case e.Type == nil && e.Capability == nil:
		return NewError(ConfigurationError).Entry(e.Name).Detail("entry matches nothing").Build()
	case e.Type != nil && e.Capability != nil:
		return NewError(ConfigurationError).Entry(e.Name).Detail("entry has both an exact type and a capability").Build()
	}

	if e.Type != nil {
		if e.Name == "" {
			e.Name = e.Type.String()
		}
		if e.Tier == TierCapability {
			return NewError(ConfigurationError).Entry(e.Name).GoType(e.Type.String()).
				Detail("exact type registered in the capability tier").Build()
		}
		if prev, ok := r.exact[e.Type]; ok {
			return NewError(ConfigurationError).Entry(e.Name).GoType(e.Type.String()).
				Detail("ambiguous with entry %q", prev.Name).Build()
		}
		r.exact[e.Type] = e
		r.entries = append(r.entries, e)
		return nil
	}

	if e.Name == "" {
		e.Name = e.Capability.String()
	}
	if e.Capability.Kind() != reflect.Interface {
		return NewError(ConfigurationError).Entry(e.Name).GoType(e.Capability.String()).
			Detail("capability is not an interface").Build()
	}
	e.Tier = TierCapability
	for _, prev := range r.caps {
		if prev.Capability.Implements(e.Capability) || e.Capability.Implements(prev.Capability) {
			return NewError(ConfigurationError).Entry(e.Name).GoType(e.Capability.String()).
				Detail("ambiguous with capability %q", prev.Name).Build()
		}
	}
	r.caps = append(r.caps, e)
	r.entries = append(r.entries, e)
	return nil
}

// Resolve returns the entry that renders v, trying exact types before
// capabilities. A false result means v goes through structural reflection.
// Nil pointers never resolve; they render as absent.
//
// Capabilities are tried in registration order. A type implementing two
// unrelated capabilities gets the first one registered; the overlap is logged
// at debug level once per type.
func (r *Registry) Resolve(v any) (Entry, bool) {
	if v == nil {
		return Entry{}, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Entry{}, false
	}
	t := reflect.TypeOf(v)
	if e, ok := r.exact[t]; ok {
		return e, true
	}
	for i, e := range r.caps {
		if !t.Implements(e.Capability) {
			continue
		}
		for _, other := range r.caps[i+1:] {
			if t.Implements(other.Capability) {
				r.reportOverlap(t, e, other)
				break
			}
		}
		return e, true
	}
	return Entry{}, false
}

func (r *Registry) reportOverlap(t reflect.Type, chosen, other Entry) {
	if _, seen := r.overlaps.LoadOrStore(t, true); seen {
		return
	}
	Logger().Debug("type matches two capabilities",
		zap.Stringer("type", t),
		zap.String("chosen", chosen.Name),
		zap.String("ignored", other.Name))
}

// Entries returns the registrations in priority order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// With returns a new registry holding r's entries plus extra.
func (r *Registry) With(extra ...Entry) (*Registry, error) {
	return NewRegistry(append(r.Entries(), extra...)...)
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustRegistry(DefaultEntries()...)
})

// DefaultRegistry returns the registry as shipped. It is built once; a
// configuration error panics on first use.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

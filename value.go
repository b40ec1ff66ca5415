package viewz

import "fmt"

// Value is the polymorphic unit flowing through the renderer. The set of
// implementations is closed: Primitive, Optional, Sequence, Mapping,
// Structured, Function, cells, observed values and the resource leaves.
type Value interface {
	isValue()
}

// Primitive is a scalar: string, number, bool, time.Time or color.
type Primitive struct {
	V any
}

// Optional is a present/absent wrapper. A nil Some means absent.
type Optional struct {
	Some Value
}

// Sequence is an ordered list of values, homogeneous or not.
type Sequence struct {
	Elems []Value
}

// MapEntry is one key of a Mapping. A nil Value renders as the placeholder.
type MapEntry struct {
	Key   string
	Value Value
}

// Mapping is a set of unique keys to values. Introspect emits entries sorted
// by key; Render sorts again so hand-built mappings are deterministic too.
type Mapping struct {
	Entries []MapEntry
}

// Field is one child of a Structured value.
type Field struct {
	Label Label
	Value Value
}

// Structured is an aggregate: a record, tuple or any composite with
// introspectable children.
type Structured struct {
	TypeName string
	Fields   []Field

	// Origin is the Go value the aggregate was introspected from, if any.
	// The renderer offers it to the registry before walking Fields.
	Origin any
}

// Function is an opaque callable, shown only by its type name.
type Function struct {
	TypeName string
}

// Signature is a parsed function type of the form "(params) -> result".
type Signature string

func (Primitive) isValue()  {}
func (Optional) isValue()   {}
func (Sequence) isValue()   {}
func (Mapping) isValue()    {}
func (Structured) isValue() {}
func (Function) isValue()   {}
func (Signature) isValue()  {}

// String returns the default textual representation.
func (p Primitive) String() string {
	if s, ok := p.V.(string); ok {
		return s
	}
	return fmt.Sprint(p.V)
}

// Absent reports whether the optional holds nothing.
func (o Optional) Absent() bool {
	return o.Some == nil
}

// Tuple builds an unlabeled aggregate; every position gets a synthetic label.
func Tuple(vals ...any) Structured {
	s := Structured{TypeName: "tuple", Fields: make([]Field, len(vals))}
	for i, v := range vals {
		s.Fields[i] = Field{Label: Position(i), Value: Introspect(v)}
	}
	return s
}

// Record builds an aggregate from alternating label, value pairs.
// Pairs with an empty label get a synthetic positional label.
func Record(pairs ...any) Structured {
	s := Structured{TypeName: "record"}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		l := Named(name)
		if name == "" {
			l = Position(i / 2)
		}
		s.Fields = append(s.Fields, Field{Label: l, Value: Introspect(pairs[i+1])})
	}
	return s
}

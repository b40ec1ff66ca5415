package viewz

import (
	"cmp"
	"fmt"
	"image/color"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Viewable lets a type supply a hand-written adapter instead of reflection.
type Viewable interface {
	ViewValue() Value
}

var timeType = reflect.TypeOf(time.Time{})

// Introspect converts an arbitrary Go value into the Value variant tree.
//
// Values that already implement Value are returned as is, Viewable types use
// their own adapter, and everything else goes through reflection:
// structs become Structured (exported fields only, honouring a `viewz:"name"`
// tag and `viewz:"-"`), slices and arrays become Sequence, maps become
// Mapping with sorted keys, nil pointers and interfaces become an absent
// Optional, and funcs become Function. A pointer, map or slice that refers
// back to one of its own ancestors becomes a text leaf naming its type.
func Introspect(v any) Value {
	in := introspector{path: make(map[visit]bool)}
	return in.value(v)
}

// visit identifies a reference on the current introspection path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type introspector struct {
	path map[visit]bool
}

func (in *introspector) value(v any) Value {
	switch v := v.(type) {
	case nil:
		return Optional{}
	case Value:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Optional{}
		}
		return v
	case Viewable:
		return v.ViewValue()
	case *url.URL:
		if v == nil {
			return Optional{}
		}
		return Primitive{V: v}
	case url.URL:
		return Primitive{V: &v}
	case color.Color:
		r, g, b, a := v.RGBA()
		return Primitive{V: color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}}
	}
	return in.reflected(reflect.ValueOf(v))
}

// enter puts rv on the path. It reports false when rv is already there.
func (in *introspector) enter(rv reflect.Value) (visit, bool) {
	k := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if in.path[k] {
		return k, false
	}
	in.path[k] = true
	return k, true
}

func backReference(rv reflect.Value) Value {
	return Primitive{V: "↺ " + rv.Type().String()}
}

func (in *introspector) reflected(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Optional{}
	case reflect.Interface:
		if rv.IsNil() {
			return Optional{}
		}
		return Optional{Some: in.value(rv.Elem().Interface())}
	case reflect.Pointer:
		if rv.IsNil() {
			return Optional{}
		}
		k, ok := in.enter(rv)
		if !ok {
			return backReference(rv)
		}
		defer delete(in.path, k)
		return Optional{Some: in.value(rv.Elem().Interface())}
	case reflect.Struct:
		if rv.Type() == timeType {
			return Primitive{V: rv.Interface()}
		}
		return in.structure(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return Sequence{}
		}
		k, ok := in.enter(rv)
		if !ok {
			return backReference(rv)
		}
		defer delete(in.path, k)
		return in.sequence(rv)
	case reflect.Array:
		return in.sequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Mapping{Entries: []MapEntry{}}
		}
		k, ok := in.enter(rv)
		if !ok {
			return backReference(rv)
		}
		defer delete(in.path, k)
		return in.mapping(rv)
	case reflect.Func:
		return Function{TypeName: rv.Type().String()}
	case reflect.Chan, reflect.UnsafePointer:
		return Primitive{V: rv.Type().String()}
	}
	return Primitive{V: rv.Interface()}
}

func (in *introspector) sequence(rv reflect.Value) Value {
	seq := Sequence{Elems: make([]Value, rv.Len())}
	for i := range rv.Len() {
		seq.Elems[i] = in.value(rv.Index(i).Interface())
	}
	return seq
}

func (in *introspector) structure(rv reflect.Value) Value {
	t := rv.Type()
	s := Structured{TypeName: t.String(), Origin: rv.Interface()}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("viewz"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		label := Named(name)
		if f.Anonymous && name == f.Name {
			label = Position(i)
		}
		s.Fields = append(s.Fields, Field{Label: label, Value: in.value(rv.Field(i).Interface())})
	}
	return s
}

// mapKey orders keys whose printed forms collide: by type, then by Go syntax.
type mapKey struct {
	key              reflect.Value
	name, typ, gosyn string
}

func (in *introspector) mapping(rv reflect.Value) Value {
	keys := make([]mapKey, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		ki := k.Interface()
		keys = append(keys, mapKey{k, fmt.Sprint(ki), fmt.Sprintf("%T", ki), fmt.Sprintf("%#v", ki)})
	}
	slices.SortFunc(keys, func(a, b mapKey) int {
		return cmp.Or(
			strings.Compare(a.name, b.name),
			strings.Compare(a.typ, b.typ),
			strings.Compare(a.gosyn, b.gosyn))
	})
	m := Mapping{Entries: make([]MapEntry, 0, len(keys))}
	for _, k := range keys {
		val := in.value(rv.MapIndex(k.key).Interface())
		if opt, ok := val.(Optional); ok && opt.Absent() {
			val = nil
		}
		m.Entries = append(m.Entries, MapEntry{Key: k.name, Value: val})
	}
	return m
}

func sortEntries(es []MapEntry) {
	slices.SortStableFunc(es, func(a, b MapEntry) int {
		return strings.Compare(a.Key, b.Key)
	})
}

package viewz

import (
	"image/color"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type introspectInner struct {
	N int
}

type Embedded struct {
	E int
}

type introspectOuter struct {
	Name    string
	Renamed int `viewz:"count"`
	Skipped int `viewz:"-"`
	hidden  int
	Inner   introspectInner
	Ptr     *introspectInner
	Fn      func(int) int
	Embedded
}

type adapted struct{}

func (adapted) ViewValue() Value { return Primitive{V: "adapted"} }

func TestIntrospect(t *testing.T) {
	t.Run("struct fields", func(t *testing.T) {
		got := Introspect(introspectOuter{Name: "n", Renamed: 2, Skipped: 3, hidden: 4})
		s, ok := got.(Structured)
		if !ok {
			t.Fatalf("got %T, want Structured", got)
		}
		var labels []Label
		for _, f := range s.Fields {
			labels = append(labels, f.Label)
		}
		want := []Label{Named("Name"), Named("count"), Named("Inner"), Named("Ptr"), Named("Fn"), Position(7)}
		if diff := cmp.Diff(want, labels); diff != "" {
			t.Errorf("labels (-want +got):\n%s", diff)
		}
		if opt, ok := s.Fields[3].Value.(Optional); !ok || !opt.Absent() {
			t.Errorf("nil pointer field = %#v, want absent optional", s.Fields[3].Value)
		}
		if fn, ok := s.Fields[4].Value.(Function); !ok || fn.TypeName != "func(int) int" {
			t.Errorf("func field = %#v", s.Fields[4].Value)
		}
	})

	t.Run("present pointer is an optional", func(t *testing.T) {
		got := Introspect(&introspectInner{N: 1})
		opt, ok := got.(Optional)
		if !ok || opt.Absent() {
			t.Fatalf("got %#v", got)
		}
		if _, ok := opt.Some.(Structured); !ok {
			t.Errorf("some = %T, want Structured", opt.Some)
		}
	})

	t.Run("map entries are sorted and nil values absent", func(t *testing.T) {
		world := "world"
		got := Introspect(map[string]*string{"hello": &world, "foo": nil, "bar": &world})
		m, ok := got.(Mapping)
		if !ok {
			t.Fatalf("got %T", got)
		}
		var keys []string
		for _, e := range m.Entries {
			keys = append(keys, e.Key)
		}
		if diff := cmp.Diff([]string{"bar", "foo", "hello"}, keys); diff != "" {
			t.Errorf("keys (-want +got):\n%s", diff)
		}
		if m.Entries[1].Value != nil {
			t.Errorf("foo = %#v, want nil", m.Entries[1].Value)
		}
	})

	t.Run("sequences", func(t *testing.T) {
		got := Introspect([3]int{1, 2, 3})
		want := Sequence{Elems: []Value{Primitive{V: 1}, Primitive{V: 2}, Primitive{V: 3}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if got := Introspect([]string(nil)); !cmp.Equal(got, Sequence{}) {
			t.Errorf("nil slice = %#v", got)
		}
	})

	t.Run("boundary types", func(t *testing.T) {
		u, _ := url.Parse("http://example.com")
		if got := Introspect(u); got != (Primitive{V: u}) {
			t.Errorf("url = %#v", got)
		}
		if got := Introspect((*url.URL)(nil)); got != (Optional{}) {
			t.Errorf("nil url = %#v", got)
		}
		c := color.NRGBA{R: 255, A: 255}
		if got := Introspect(c); got != (Primitive{V: color.RGBA{R: 255, A: 255}}) {
			t.Errorf("color = %#v", got)
		}
		now := time.Now()
		if p, ok := Introspect(now).(Primitive); !ok || !p.V.(time.Time).Equal(now) {
			t.Errorf("time = %#v", Introspect(now))
		}
		if got := Introspect(adapted{}); got != (Primitive{V: "adapted"}) {
			t.Errorf("viewable = %#v", got)
		}
		if got := Introspect((*Contact)(nil)); got != (Optional{}) {
			t.Errorf("typed nil value = %#v", got)
		}
	})

	t.Run("colliding map keys order by type", func(t *testing.T) {
		want := Mapping{Entries: []MapEntry{{Key: "1", Value: Primitive{V: 1}}, {Key: "1", Value: Primitive{V: 2}}}}
		for range 50 {
			if diff := cmp.Diff(want, Introspect(map[any]int{1: 1, "1": 2})); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		}
	})

	t.Run("cycles become back references", func(t *testing.T) {
		s := []any{nil}
		s[0] = s
		want := Sequence{Elems: []Value{Primitive{V: "↺ []interface {}"}}}
		if diff := cmp.Diff(want, Introspect(s)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("shared pointers are not cycles", func(t *testing.T) {
		shared := &introspectInner{N: 1}
		seq, _ := Introspect([]*introspectInner{shared, shared}).(Sequence)
		for i, e := range seq.Elems {
			opt, ok := e.(Optional)
			if !ok || opt.Absent() {
				t.Fatalf("elem %d = %#v", i, e)
			}
			if _, ok := opt.Some.(Structured); !ok {
				t.Errorf("elem %d = %T, want Structured", i, opt.Some)
			}
		}
		if len(seq.Elems) != 2 {
			t.Errorf("%d elems", len(seq.Elems))
		}
	})

	t.Run("values pass through", func(t *testing.T) {
		c := NewCell(1)
		if Introspect(c) != Value(c) {
			t.Error("cell not returned as is")
		}
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		label  Label
		title  string
		absent bool
	}{
		{Named("age"), "Age", false},
		{Named("editAge"), "Edit Age", false},
		{Named("URLPath"), "URL Path", false},
		{Named("snake_case_name"), "Snake Case Name", false},
		{Named("_foo"), "Foo", false},
		{Named("_"), "", true},
		{Named(""), "", true},
		{Position(0), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.label.Text, func(t *testing.T) {
			if got := tt.label.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
			if got := tt.label.Absent(); got != tt.absent {
				t.Errorf("Absent() = %v, want %v", got, tt.absent)
			}
		})
	}
	if got := NoLabel.TitleOr("Some"); got != "Some" {
		t.Errorf("TitleOr = %q", got)
	}
}

func TestContextWeight(t *testing.T) {
	ctx := RootContext(NoLabel)
	if ctx.Weight() != 1 {
		t.Errorf("root weight = %v", ctx.Weight())
	}
	for range 10 {
		ctx = ctx.Child(NoLabel)
	}
	if ctx.Weight() != 0 {
		t.Errorf("weight at depth 10 = %v, want 0", ctx.Weight())
	}
	if ctx.Root {
		t.Error("child context is root")
	}
}

package viewz

import (
	"testing"
	"time"
)

func TestCell(t *testing.T) {
	t.Run("set notifies subscribers", func(t *testing.T) {
		c := NewCell("a")
		calls := 0
		c.Subscribe(func() { calls++ })
		if !c.Set("b") {
			t.Fatal("unguarded write rejected")
		}
		if c.Get() != "b" {
			t.Errorf("got %q, want %q", c.Get(), "b")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("equal write is accepted without notification", func(t *testing.T) {
		c := NewCell(3)
		calls := 0
		c.Subscribe(func() { calls++ })
		if !c.Set(3) {
			t.Error("equal write rejected")
		}
		if calls != 0 {
			t.Errorf("calls = %d, want 0", calls)
		}
	})

	t.Run("unsubscribe stops notifications", func(t *testing.T) {
		c := NewCell(0)
		calls := 0
		tok := c.Subscribe(func() { calls++ })
		c.Set(1)
		c.Unsubscribe(tok)
		c.Set(2)
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		if c.Listeners() != 0 {
			t.Errorf("listeners = %d, want 0", c.Listeners())
		}
	})

	t.Run("listener may unsubscribe itself", func(t *testing.T) {
		c := NewCell(0)
		var tok Token
		other := 0
		tok = c.Subscribe(func() { c.Unsubscribe(tok) })
		c.Subscribe(func() { other++ })
		c.Set(1)
		c.Set(2)
		if other != 2 {
			t.Errorf("other = %d, want 2", other)
		}
	})

	t.Run("update applies function", func(t *testing.T) {
		c := NewCell(4)
		c.Update(func(v int) int { return v * 2 })
		if c.Get() != 8 {
			t.Errorf("got %d, want 8", c.Get())
		}
	})

	t.Run("date cell compares instants", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		c := NewDateCell(now)
		calls := 0
		c.Subscribe(func() { calls++ })
		c.Set(now.In(time.FixedZone("X", 3600)))
		if calls != 0 {
			t.Errorf("same instant notified %d times", calls)
		}
		c.Set(now.Add(time.Minute))
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestConditionally(t *testing.T) {
	t.Run("rejected write leaves value unchanged", func(t *testing.T) {
		c := NewCell("Foo")
		guarded := c.Conditionally(MaxLen(10))
		calls := 0
		c.Subscribe(func() { calls++ })

		if guarded.Set("hello world") {
			t.Error("11 characters accepted")
		}
		if c.Get() != "Foo" {
			t.Errorf("value changed to %q", c.Get())
		}
		if calls != 0 {
			t.Errorf("rejected write notified %d times", calls)
		}
	})

	t.Run("accepted write goes to shared storage", func(t *testing.T) {
		c := NewCell(0)
		guarded := c.Conditionally(InRange(1, 5))
		if !guarded.Set(3) {
			t.Fatal("3 rejected")
		}
		if c.Get() != 3 {
			t.Errorf("parent = %d, want 3", c.Get())
		}
		if guarded.Identity() != c.Identity() {
			t.Error("views do not share identity")
		}
	})

	t.Run("guards chain", func(t *testing.T) {
		c := NewCell("")
		g := c.Conditionally(MaxLen(5)).Conditionally(Required)
		if g.Set("   ") {
			t.Error("blank accepted")
		}
		if g.Set("toolong") {
			t.Error("long accepted")
		}
		if !g.Set("ok") {
			t.Error("ok rejected")
		}
		if !g.Guarded() || c.Guarded() {
			t.Error("guard flags wrong")
		}
	})

	t.Run("parent write bypasses the view guard", func(t *testing.T) {
		c := NewCell(0)
		_ = c.Conditionally(InRange(1, 5))
		if !c.Set(9) {
			t.Error("unguarded parent rejected")
		}
	})
}

func TestPublished(t *testing.T) {
	p := NewPublished(1)
	calls := 0
	tok := p.Subscribe(func() { calls++ })
	p.Publish(2)
	p.Publish(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if p.Snapshot() != 2 {
		t.Errorf("snapshot = %v, want 2", p.Snapshot())
	}
	p.Unsubscribe(tok)
	p.Publish(3)
	if calls != 1 {
		t.Errorf("calls after unsubscribe = %d, want 1", calls)
	}
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"", true},
		{"abc-123", true},
		{"abc 123", false},
	}
	slug := Match(`^[a-z0-9-]+$`)
	for _, tt := range tests {
		if got := slug(tt.name); got != tt.ok {
			t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.ok)
		}
	}
	if !MinLen(2)("ab") || MinLen(3)("ab") {
		t.Error("MinLen wrong")
	}
	if !MaxLen(3)("héé") {
		t.Error("MaxLen counts bytes, not characters")
	}
}

package viewz

import "time"

// Token identifies a subscription returned by Subscribe.
type Token uint64

// Observable is the reactive container the renderer depends on.
// Every mutable leaf subscribes through it so the tree re-renders when the
// backing value changes.
type Observable interface {
	Subscribe(fn func()) Token
	Unsubscribe(tok Token)
}

// cellStore is the shared backing of a cell and all of its guarded views.
type cellStore[T any] struct {
	value     T
	eq        func(a, b T) bool
	listeners []listener
	next      Token
}

type listener struct {
	tok Token
	fn  func()
}

// Cell is a mutable reference to a value with read and guarded-write access.
// Writes that do not change the value (by the cell's equality) are accepted
// but do not notify, which breaks feedback loops between dependent cells.
type Cell[T any] struct {
	store *cellStore[T]
	guard func(T) bool
}

// NewCell creates a cell for a comparable value, using == for deduplication.
func NewCell[T comparable](v T) *Cell[T] {
	return NewCellFunc(v, func(a, b T) bool { return a == b })
}

// NewCellFunc creates a cell with a custom equality.
func NewCellFunc[T any](v T, eq func(a, b T) bool) *Cell[T] {
	return &Cell[T]{store: &cellStore[T]{value: v, eq: eq}}
}

// NewDateCell creates a time cell that compares instants, ignoring the
// monotonic reading and location.
func NewDateCell(t time.Time) *Cell[time.Time] {
	return NewCellFunc(t, time.Time.Equal)
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.store.value
}

// Set writes v through to the backing value. It returns false when the guard
// rejects v; the value is then unchanged and nobody is notified.
func (c *Cell[T]) Set(v T) bool {
	if c.guard != nil && !c.guard(v) {
		return false
	}
	s := c.store
	if s.eq != nil && s.eq(s.value, v) {
		return true
	}
	s.value = v
	s.notify()
	return true
}

// Update applies fn to a copy of the value and writes the result back.
func (c *Cell[T]) Update(fn func(T) T) bool {
	return c.Set(fn(c.Get()))
}

// Conditionally returns a view of the same storage whose writes must satisfy
// pred (in addition to any guard already on c).
func (c *Cell[T]) Conditionally(pred func(T) bool) *Cell[T] {
	parent := c.guard
	guard := pred
	if parent != nil {
		guard = func(v T) bool { return parent(v) && pred(v) }
	}
	return &Cell[T]{store: c.store, guard: guard}
}

// Guarded reports whether writes through this view are predicate-gated.
func (c *Cell[T]) Guarded() bool {
	return c.guard != nil
}

// Accepts reports whether v would pass the guard.
func (c *Cell[T]) Accepts(v T) bool {
	return c.guard == nil || c.guard(v)
}

// Subscribe adds a change listener. Views share listeners with their parent.
func (c *Cell[T]) Subscribe(fn func()) Token {
	s := c.store
	s.next++
	s.listeners = append(s.listeners, listener{tok: s.next, fn: fn})
	return s.next
}

// Unsubscribe removes the listener registered under tok.
func (c *Cell[T]) Unsubscribe(tok Token) {
	s := c.store
	for i, l := range s.listeners {
		if l.tok == tok {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of active subscriptions.
func (c *Cell[T]) Listeners() int {
	return len(c.store.listeners)
}

// Snapshot returns the current value boxed, for renderers that do not know T.
func (c *Cell[T]) Snapshot() any {
	return c.store.value
}

// Identity returns a key shared by every view of the same storage.
func (c *Cell[T]) Identity() any {
	return c.store
}

func (c *Cell[T]) isValue() {}

func (s *cellStore[T]) notify() {
	// copy so listeners may unsubscribe during notification
	ls := append([]listener(nil), s.listeners...)
	for _, l := range ls {
		l.fn()
	}
}

// Published is a read-only observable value. Only its owner can change it,
// through Publish; the renderer shows the current value and subscribes.
type Published[T any] struct {
	cell *Cell[T]
}

// NewPublished creates a read-only observable holding v.
func NewPublished[T comparable](v T) *Published[T] {
	return &Published[T]{cell: NewCell(v)}
}

// Get returns the current value.
func (p *Published[T]) Get() T {
	return p.cell.Get()
}

// Publish replaces the value and notifies subscribers when it changed.
func (p *Published[T]) Publish(v T) {
	p.cell.Set(v)
}

// Subscribe implements Observable.
func (p *Published[T]) Subscribe(fn func()) Token {
	return p.cell.Subscribe(fn)
}

// Unsubscribe implements Observable.
func (p *Published[T]) Unsubscribe(tok Token) {
	p.cell.Unsubscribe(tok)
}

// Snapshot returns the current value boxed.
func (p *Published[T]) Snapshot() any {
	return p.cell.Get()
}

// Identity returns the subscription identity of the value.
func (p *Published[T]) Identity() any {
	return p.cell.store
}

func (p *Published[T]) isValue() {}

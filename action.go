package viewz

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Action is the state of a fire-once button.
//
//	idle → considering → beginning → ending | error → idle
//
// Writing ActionBeginning while already beginning is a no-op; the button is
// disabled and shows a busy indicator for exactly that state.
type Action uint8

const (
	ActionIdle Action = iota
	ActionConsidering
	ActionBeginning
	ActionEnding
	ActionError
)

var actionNames = [...]string{"idle", "considering", "beginning", "ending", "error"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Terminal reports whether a is a completion state that resets to idle.
func (a Action) Terminal() bool {
	return a == ActionEnding || a == ActionError
}

// NewActionCell returns an idle action cell.
func NewActionCell() *Cell[Action] {
	return NewCell(ActionIdle)
}

// Perform binds fn to an action cell. Each transition into ActionBeginning
// runs fn once on a worker goroutine. Its completion is handed to post, which
// must run the callback on the goroutine that owns the cell; the cell then
// moves to ActionEnding or ActionError and back to ActionIdle.
// The returned stop function unsubscribes.
func Perform(ctx context.Context, c *Cell[Action], post func(func()), fn func(context.Context) error) (stop func()) {
	running := false
	tok := c.Subscribe(func() {
		if c.Get() != ActionBeginning || running {
			return
		}
		running = true
		go func() {
			err := fn(ctx)
			post(func() {
				running = false
				if err != nil {
					Logger().Warn("action failed", zap.Error(err))
					c.Set(ActionError)
				} else {
					c.Set(ActionEnding)
				}
				c.Set(ActionIdle)
			})
		}()
	})
	return func() { c.Unsubscribe(tok) }
}

// Debounce delays fn by d. The wait is abandoned when ctx is done.
func Debounce(d time.Duration, fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		return fn(ctx)
	}
}

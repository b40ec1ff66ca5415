package viewz

import (
	"image/color"
	"net/url"
	"time"
)

// Observed is a read-only observable value whose current contents are
// rendered structurally. Published values and cells of unregistered types
// satisfy it.
type Observed interface {
	Observable
	Snapshot() any
	Identity() any
}

// Renderable lets a type supply its own subtree. The returned node must be
// wrapped with Renderer.Chrome.
type Renderable interface {
	RenderView(r *Renderer, ctx Context) *Node
}

// DefaultEntries returns the registrations shipped with the package.
func DefaultEntries() []Entry {
	return []Entry{
		Exact("mutable string", TierCell, func(r *Renderer, c *Cell[string], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafTextField)
		}),
		Exact("mutable integer", TierCell, func(r *Renderer, c *Cell[int], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafStepper)
		}),
		Exact("mutable boolean", TierCell, func(r *Renderer, c *Cell[bool], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafToggle)
		}),
		Exact("mutable date", TierCell, func(r *Renderer, c *Cell[time.Time], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafDatePicker)
		}),
		Exact("mutable color", TierCell, func(r *Renderer, c *Cell[color.RGBA], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafColorPicker)
		}),
		Exact("mutable contact", TierCell, func(r *Renderer, c *Cell[*Contact], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafContactEditor)
		}),
		Exact("mutable image", TierCell, func(r *Renderer, c *Cell[*Image], ctx Context) *Node {
			r.Watch(c)
			return r.Chrome(ctx, LeafNode(ctx, LeafImage, c.Get(), nil))
		}),
		Exact("mutable region", TierCell, func(r *Renderer, c *Cell[Region], ctx Context) *Node {
			return cellLeaf(r, c, ctx, LeafMap)
		}),
		Exact("mutable photo selection", TierCell, func(r *Renderer, c *Cell[*PhotoItem], ctx Context) *Node {
			return r.photo(c, ctx)
		}),
		Exact("action", TierCell, func(r *Renderer, c *Cell[Action], ctx Context) *Node {
			return r.button(c, ctx)
		}),

		Exact("contact", TierLeaf, func(r *Renderer, c *Contact, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafContact, c, nil))
		}),
		Exact("color", TierLeaf, func(r *Renderer, c color.RGBA, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafColor, c, nil))
		}),
		Exact("image", TierLeaf, func(r *Renderer, img *Image, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafImage, img, nil))
		}),
		Exact("region", TierLeaf, func(r *Renderer, reg Region, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafMap, reg, nil))
		}),
		Exact("link", TierLeaf, func(r *Renderer, u *url.URL, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafLink, u, nil))
		}),
		Exact("media item", TierLeaf, func(r *Renderer, m MediaItem, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafVideo, m, nil))
		}),
		Exact("function signature", TierLeaf, func(r *Renderer, s Signature, ctx Context) *Node {
			return r.Chrome(ctx, LeafNode(ctx, LeafSignature, s, nil))
		}),

		Capability("observed", func(r *Renderer, o Observed, ctx Context) *Node {
			r.Watch(o)
			return r.Render(o.Snapshot, ctx)
		}),
		Capability("renderable", func(r *Renderer, v Renderable, ctx Context) *Node {
			return v.RenderView(r, ctx)
		}),
	}
}

// cellLeaf renders a writable leaf bound to c and subscribes to it.
func cellLeaf[T any](r *Renderer, c *Cell[T], ctx Context, kind LeafKind) *Node {
	r.Watch(c)
	return r.Chrome(ctx, LeafNode(ctx, kind, c.Get(), typedSet(c)))
}

func typedSet[T any](c *Cell[T]) func(any) bool {
	return func(v any) bool {
		t, ok := v.(T)
		return ok && c.Set(t)
	}
}

func (r *Renderer) button(c *Cell[Action], ctx Context) *Node {
	r.Watch(c)
	state := c.Get()
	busy := state == ActionBeginning
	n := LeafNode(ctx, LeafButton, ctx.Label.TitleOr("Missing"), func(any) bool {
		return c.Set(ActionBeginning)
	})
	n.Leaf.Busy = busy
	n.Leaf.Disabled = busy
	return r.Chrome(ctx.WithLabel(NoLabel), n)
}

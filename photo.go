package viewz

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
)

// photoState tracks the load of the item currently selected in one photo cell.
type photoState struct {
	item    *PhotoItem
	image   *Image
	pending bool
	err     error
}

// photo renders a photo-selection cell. A new selection starts an
// asynchronous load; a result for a selection that has since been replaced
// is dropped.
func (r *Renderer) photo(c *Cell[*PhotoItem], ctx Context) *Node {
	r.Watch(c)
	st, ok := r.photos[c.Identity()]
	if !ok {
		st = &photoState{}
		r.photos[c.Identity()] = st
	}
	if item := c.Get(); item != st.item {
		st.item = item
		st.image = nil
		st.err = nil
		st.pending = item != nil && item.Load != nil
		if st.pending {
			r.load(st, item)
		}
	}

	n := LeafNode(ctx, LeafPhotoPicker, st.image, typedSet(c))
	n.Leaf.Busy = st.pending
	return r.Chrome(ctx, n)
}

func (r *Renderer) load(st *photoState, item *PhotoItem) {
	ctx := r.ctx
	go func() {
		var img *Image
		data, err := item.Load(ctx)
		if err == nil {
			img, err = DecodeImage(item.ID, data)
		}
		r.post(func() {
			if st.item != item {
				return
			}
			st.pending = false
			if err != nil {
				st.err = NewError(AsyncLoadFailure).Entry("mutable photo selection").
					Detail("photo %q", item.ID).Cause(err).Build()
				Logger().Warn("photo load failed", zap.Error(st.err))
			} else {
				st.image = img
			}
			r.changed()
		})
	}()
}

// PhotoError returns the load error of the photo cell c, if any.
func (r *Renderer) PhotoError(c *Cell[*PhotoItem]) error {
	if st, ok := r.photos[c.Identity()]; ok && st.err != nil {
		return st.err
	}
	return nil
}

// DecodeImage decodes PNG, JPEG or GIF data into an Image.
func DecodeImage(name string, data []byte) (*Image, error) {
	px, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Image{Name: name, Pixels: px}, nil
}

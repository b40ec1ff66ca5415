package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/url"
	"time"

	"viewz"
)

type Bar struct {
	String     string
	Array      []int
	Function   func(int) int
	Dictionary map[string]*string
}

type Foo struct {
	Integer int
	Structs []Bar
	Tuple   struct{ Foo, Bar int }
	Enum    any
}

type demo struct {
	foo    *viewz.Cell[string]
	age    *viewz.Cell[int]
	date   *viewz.Cell[time.Time]
	toggle *viewz.Cell[bool]
	color  *viewz.Cell[color.RGBA]
	region *viewz.Cell[viewz.Region]
	button *viewz.Cell[viewz.Action]
	baz    *viewz.Published[int]
	incBaz *viewz.Cell[viewz.Action]
	photo  *viewz.Cell[*viewz.PhotoItem]

	link    *url.URL
	star    *viewz.Image
	gallery []*viewz.Image
	nested  Foo

	Photos []*viewz.PhotoItem
	stops  []func()
}

func newDemo(ctx context.Context, post func(func())) *demo {
	link, _ := url.Parse("http://www.google.com")
	d := &demo{
		foo:    viewz.NewCell("Foo"),
		age:    viewz.NewCell(0),
		date:   viewz.NewDateCell(time.Now()),
		toggle: viewz.NewCell(false),
		color:  viewz.NewCell(color.RGBA{R: 0xff, A: 0xff}),
		region: viewz.NewCell(viewz.Region{
			Center: viewz.Coordinate{Latitude: 51.507222, Longitude: -3.1275},
			Span:   viewz.Span{LatitudeDelta: 0.5, LongitudeDelta: 0.5},
		}),
		button: viewz.NewActionCell(),
		baz:    viewz.NewPublished(0),
		incBaz: viewz.NewActionCell(),
		photo:  viewz.NewCell[*viewz.PhotoItem](nil),
		link:   link,
		star:   &viewz.Image{Name: "star.fill", Pixels: starImage(24, color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff})},
		nested: nestedFoo(),
	}
	for i, c := range []color.RGBA{
		{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff},
		{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff},
		{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff},
		{R: 0xcb, G: 0xa6, B: 0xf7, A: 0xff},
	} {
		d.gallery = append(d.gallery, &viewz.Image{Name: "tile" + string(rune('a'+i)), Pixels: starImage(16, c)})
	}
	d.Photos = []*viewz.PhotoItem{
		photoItem("sunrise", color.RGBA{R: 0xfa, G: 0xb3, B: 0x87, A: 0xff}, 300*time.Millisecond),
		photoItem("ocean", color.RGBA{R: 0x74, G: 0xc7, B: 0xec, A: 0xff}, 600*time.Millisecond),
		{ID: "corrupt", Load: func(ctx context.Context) ([]byte, error) {
			return nil, errors.New("not an image")
		}},
	}

	d.stops = append(d.stops,
		viewz.Perform(ctx, d.button, post, func(context.Context) error { return nil }),
		viewz.Perform(ctx, d.incBaz, post, viewz.Debounce(time.Second, func(context.Context) error {
			post(func() { d.baz.Publish(d.baz.Get() + 1) })
			return nil
		})),
	)
	return d
}

// Stop unbinds the demo actions.
func (d *demo) Stop() {
	for _, stop := range d.stops {
		stop()
	}
}

// Produce builds the root value; plain fields read the current cell values.
func (d *demo) Produce() any {
	return viewz.Record(
		"link", d.link,
		"", d.star,
		"color", d.color,
		"toggle", d.toggle,
		"date", d.date,
		"map", d.region,
		"button", d.button,
		"baz", d.baz,
		"incrementBaz", d.incBaz,
		"foo", 3,
		"things", []int{1, 2, 3},
		"", viewz.Record("age", d.age.Get(), "editAge", d.age.Conditionally(viewz.InRange(1, 5))),
		"", viewz.Record("edit", d.foo.Conditionally(viewz.MaxLen(10)), "name", viewz.Record("key", "yo", "value", d.foo.Get())),
		"", d.nested,
		"gallery", d.gallery,
		"photo", d.photo,
	)
}

func nestedFoo() Foo {
	world, barz := "world", "barz"
	long := make([]int, 0, 51)
	long = append(long, 1)
	for range 25 {
		long = append(long, 2, 3)
	}
	bar := func(array []int, foo *string) Bar {
		return Bar{
			String:     "foo",
			Array:      array,
			Function:   func(int) int { return 8 },
			Dictionary: map[string]*string{"hello": &world, "foo": foo},
		}
	}
	f := Foo{
		Integer: 8,
		Structs: []Bar{bar(long, nil), bar([]int{1, 2, 3}, &barz), bar([]int{1, 2, 3}, &barz)},
		Enum:    bar([]int{1, 2, 3}, &barz),
	}
	f.Tuple.Foo, f.Tuple.Bar = 9, 999
	return f
}

// starImage draws a five-pointed star of size×size pixels on transparency.
func starImage(size int, fill color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	var pts [10][2]float64
	for i := range pts {
		r := c
		if i%2 == 1 {
			r = c * 0.4
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = [2]float64{c + r*math.Cos(a), c + r*math.Sin(a)}
	}
	for y := range size {
		for x := range size {
			if inside(pts[:], float64(x)+0.5, float64(y)+0.5) {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}

// inside is the even-odd point-in-polygon test.
func inside(poly [][2]float64, x, y float64) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
	}
	return in
}

func photoItem(id string, c color.RGBA, delay time.Duration) *viewz.PhotoItem {
	return &viewz.PhotoItem{ID: id, Load: func(ctx context.Context) ([]byte, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		img := image.NewRGBA(image.Rect(0, 0, 32, 20))
		for y := range 20 {
			for x := range 32 {
				img.SetRGBA(x, y, color.RGBA{R: uint8(int(c.R) - int(c.R)*y/80), G: c.G, B: uint8(int(c.B) * (x + 32) / 64), A: 0xff})
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}}
}

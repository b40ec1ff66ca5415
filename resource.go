package viewz

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"
)

// Image is an image leaf. Pixels may be nil for a named image with no data.
type Image struct {
	Name   string
	Pixels image.Image
}

// Bounds returns the pixel size, or 0,0 without data.
func (img *Image) Bounds() (w, h int) {
	if img == nil || img.Pixels == nil {
		return 0, 0
	}
	b := img.Pixels.Bounds()
	return b.Dx(), b.Dy()
}

func (img *Image) String() string {
	if img == nil {
		return Placeholder
	}
	w, h := img.Bounds()
	return fmt.Sprintf("%s (%dx%d)", img.Name, w, h)
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Span is the visible extent of a Region in degrees.
type Span struct {
	LatitudeDelta  float64
	LongitudeDelta float64
}

// Region is a geographic region shown by the map leaf.
type Region struct {
	Center Coordinate
	Span   Span
}

// Pan moves the center by the given fractions of the span.
func (r Region) Pan(dLat, dLon float64) Region {
	r.Center.Latitude += dLat * r.Span.LatitudeDelta
	r.Center.Longitude += dLon * r.Span.LongitudeDelta
	return r
}

// Zoom scales the span by factor.
func (r Region) Zoom(factor float64) Region {
	r.Span.LatitudeDelta *= factor
	r.Span.LongitudeDelta *= factor
	return r
}

func (r Region) String() string {
	return fmt.Sprintf("%.4f, %.4f ±%.2f°/%.2f°",
		r.Center.Latitude, r.Center.Longitude, r.Span.LatitudeDelta, r.Span.LongitudeDelta)
}

// MediaItem is a playable media reference.
type MediaItem struct {
	Title    string
	Source   string
	Duration time.Duration
}

func (m MediaItem) String() string {
	d := m.Duration.Round(time.Second)
	return fmt.Sprintf("%s %d:%02d", m.Title, int(d.Minutes()), int(d.Seconds())%60)
}

// Contact is an address-book entry.
type Contact struct {
	GivenName  string
	FamilyName string
	Emails     []string
	Phones     []string
}

// FullName joins the given and family names.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

// PhotoItem is a selection made in a photo picker. Its data is loaded
// lazily and off the render goroutine.
type PhotoItem struct {
	ID   string
	Load func(ctx context.Context) ([]byte, error)
}

func (*Image) isValue()     {}
func (Region) isValue()     {}
func (MediaItem) isValue()  {}
func (*Contact) isValue()   {}
func (*PhotoItem) isValue() {}

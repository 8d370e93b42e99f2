package annotation

import (
	"image/color"
	"math"

	"github.com/google/uuid"
)

// Kind identifies the concrete type of a Shape.
type Kind string

const (
	KindRect   Kind = "rect"
	KindMosaic Kind = "mosaic"
	KindArrow  Kind = "arrow"
	KindText   Kind = "text"
)

// RectStyle selects how a rectangle annotation is stroked.
type RectStyle string

const (
	RectSolid  RectStyle = "solid"
	RectDashed RectStyle = "dashed"
	RectFilled RectStyle = "filled"
)

// MosaicStyle selects the redaction filter applied to a mosaic region.
type MosaicStyle string

const (
	MosaicPixelate MosaicStyle = "pixelate"
	MosaicBlur     MosaicStyle = "blur"
)

// ArrowStyle selects the arrow head and stroke treatment.
type ArrowStyle string

const (
	ArrowSingle ArrowStyle = "single"
	ArrowDouble ArrowStyle = "double"
	ArrowThick  ArrowStyle = "thick"
)

// Shape is one user-drawn markup object. Concrete shapes are value types;
// mutating code must replace the stored shape rather than edit it in place so
// earlier document snapshots stay intact.
type Shape interface {
	ID() string
	Kind() Kind
}

// NewID returns a fresh shape identifier. IDs are unique within a document
// and never change once assigned.
func NewID() string { return uuid.NewString() }

// Rect is an axis-aligned rectangle annotation in logical canvas coordinates.
type Rect struct {
	Id          string
	X, Y        float64
	W, H        float64
	Style       RectStyle
	Color       color.RGBA
	StrokeWidth int
}

func (r Rect) ID() string { return r.Id }
func (r Rect) Kind() Kind { return KindRect }

// Mosaic is a redaction region. BlockSize is measured in logical pixels.
type Mosaic struct {
	Id        string
	X, Y      float64
	W, H      float64
	Style     MosaicStyle
	BlockSize int
}

func (m Mosaic) ID() string { return m.Id }
func (m Mosaic) Kind() Kind { return KindMosaic }

// Arrow runs from (X1,Y1) to (X2,Y2); the head sits on the second point.
type Arrow struct {
	Id             string
	X1, Y1, X2, Y2 float64
	Style          ArrowStyle
	Color          color.RGBA
	StrokeWidth    int
}

func (a Arrow) ID() string { return a.Id }
func (a Arrow) Kind() Kind { return KindArrow }

// Length reports the Euclidean length of the arrow.
func (a Arrow) Length() float64 {
	return math.Hypot(a.X2-a.X1, a.Y2-a.Y1)
}

// Text anchors its baseline-left corner at (X,Y). Unlike the other shapes a
// Text may legitimately hold an empty string while an edit session is open.
type Text struct {
	Id       string
	X, Y     float64
	Text     string
	FontSize float64
	Color    color.RGBA
}

func (t Text) ID() string { return t.Id }
func (t Text) Kind() Kind { return KindText }

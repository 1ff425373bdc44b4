// Package images - Pixel geometry shared by decoding, suppression and scoring.
package images

import "fmt"

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned pixel rectangle anchored at its top-left corner.
//
// The right and bottom edges are exclusive, so a pixel (px, py) is inside
// when X <= px < X+Width and Y <= py < Y+Height.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// RectFromCenter builds a rectangle of the given size around a center point.
//
// Integer division is used for the half extents, so odd sizes lean towards
// the bottom right.
//
// Arguments:
//   - cx, cy: The center of the rectangle.
//   - w, h: The width and height of the rectangle.
//
// Returns:
//   - The rectangle with top-left corner (cx - w/2, cy - h/2).
func RectFromCenter(cx, cy, w, h int) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// X2 returns the exclusive right edge.
func (r Rect) X2() int {
	return r.X + r.Width
}

// Y2 returns the exclusive bottom edge.
func (r Rect) Y2() int {
	return r.Y + r.Height
}

// Area returns Width*Height. It is only meaningful for non-empty rectangles.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center pixel of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X2() && p.Y >= r.Y && p.Y < r.Y2()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Overlap returns the intersection rectangle of r and o.
//
// When the rectangles do not overlap the width and/or height are clamped to
// zero, so the returned area is never negative.
//
// Example:
//
//	a := Rect{X: 460, Y: 218, Width: 26, Height: 87}
//	b := Rect{X: 460, Y: 218, Width: 26, Height: 80}
//	Overlap(a, b) // (460, 218, 26x80)
func Overlap(r, o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X2(), o.X2())
	y2 := min(r.Y2(), o.Y2())
	return Rect{
		X:      x1,
		Y:      y1,
		Width:  max(0, x2-x1),
		Height: max(0, y2-y1),
	}
}

// UnionArea returns the area covered by r and o given their overlap.
//
// The union is assembled from the shared part plus the two exclusive parts:
//
//	overlap + (area(r) - overlap) + (area(o) - overlap)
//
// which equals area(r) + area(o) - overlap.
func UnionArea(r, o, overlap Rect) float64 {
	shared := float64(overlap.Area())
	return shared + (float64(r.Area()) - shared) + (float64(o.Area()) - shared)
}

// CalculateIoU measures how much two rectangles overlap as
// Intersection over Union, a value between 0.0 and 1.0.
//
//   - 1.0 means the rectangles are identical.
//   - 0.0 means they do not overlap (or the union is empty).
//
// Arguments:
//   - r: The first rectangle.
//   - o: The rectangle to compare against.
//
// Returns:
//   - float32: The IoU score.
//
// Example:
//
//	rect1 := Rect{X: 0, Y: 0, Width: 10, Height: 10}
//	rect2 := Rect{X: 5, Y: 5, Width: 10, Height: 10}
//	CalculateIoU(rect1, rect2) // 25 / 175 = 0.142857
func CalculateIoU(r, o Rect) float32 {
	inter := Overlap(r, o)
	if inter.Empty() {
		return 0.0
	}
	union := UnionArea(r, o, inter)
	if union <= 0 {
		return 0.0
	}
	return float32(float64(inter.Area()) / union)
}

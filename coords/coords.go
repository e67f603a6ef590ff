// Package coords provides the small amount of 2D geometry the serializer
// needs: transform matrices and bounding rectangles. It has no dependency
// on the rest of the module.
package coords

import "math"

// Matrix is a PDF transformation matrix in the usual [a b c d e f] form,
// applied as: x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

func Rotate(radians float64) Matrix {
	c, s := math.Cos(radians), math.Sin(radians)
	return Matrix{c, s, -s, c, 0, 0}
}

// Multiply returns the CTM obtained by concatenating m onto o, matching PDF's
// cm operator: a point is transformed by m first, then by the previous CTM o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

func (m Matrix) IsIdentity() bool { return m == Identity() }

type Point struct{ X, Y float64 }

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix) Inverse() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, false
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}

// Rect is an axis-aligned bounding box, LLX/LLY/URX/URY in PDF user space.
// The zero value is not a valid empty rect; use EmptyRect.
type Rect struct {
	LLX, LLY, URX, URY float64
	empty              bool
}

func EmptyRect() Rect { return Rect{empty: true} }

func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return EmptyRect()
	}
	r := Rect{LLX: pts[0].X, LLY: pts[0].Y, URX: pts[0].X, URY: pts[0].Y}
	for _, p := range pts[1:] {
		r.LLX = math.Min(r.LLX, p.X)
		r.LLY = math.Min(r.LLY, p.Y)
		r.URX = math.Max(r.URX, p.X)
		r.URY = math.Max(r.URY, p.Y)
	}
	return r
}

func (r Rect) IsEmpty() bool { return r.empty }

func (r Rect) Width() float64  { return r.URX - r.LLX }
func (r Rect) Height() float64 { return r.URY - r.LLY }

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.empty {
		return o
	}
	if o.empty {
		return r
	}
	return Rect{
		LLX: math.Min(r.LLX, o.LLX), LLY: math.Min(r.LLY, o.LLY),
		URX: math.Max(r.URX, o.URX), URY: math.Max(r.URY, o.URY),
	}
}

// Dilate grows the rect by amt in every direction; used for the stroked-path
// bbox (half the line width; miter extension at corners is not added).
func (r Rect) Dilate(amt float64) Rect {
	if r.empty {
		return r
	}
	return Rect{LLX: r.LLX - amt, LLY: r.LLY - amt, URX: r.URX + amt, URY: r.URY + amt}
}

// TransformedBy returns the bounding box of r's four corners after applying m.
func (r Rect) TransformedBy(m Matrix) Rect {
	if r.empty {
		return r
	}
	return RectFromPoints(
		m.Transform(Point{r.LLX, r.LLY}),
		m.Transform(Point{r.URX, r.LLY}),
		m.Transform(Point{r.URX, r.URY}),
		m.Transform(Point{r.LLX, r.URY}),
	)
}

func (r Rect) Array() [4]float64 { return [4]float64{r.LLX, r.LLY, r.URX, r.URY} }

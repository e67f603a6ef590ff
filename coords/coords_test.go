package coords

import "testing"

func TestMultiplyIdentity(t *testing.T) {
	m := Translate(10, 20)
	if got := m.Multiply(Identity()); got != m {
		t.Fatalf("m * I = %v, want %v", got, m)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Scale(2, 4).Multiply(Translate(3, -5))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	p := Point{X: 7, Y: 11}
	roundTripped := inv.Transform(m.Transform(p))
	if diff := roundTripped.X - p.X; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("round trip X mismatch: %v vs %v", roundTripped.X, p.X)
	}
	if diff := roundTripped.Y - p.Y; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("round trip Y mismatch: %v vs %v", roundTripped.Y, p.Y)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := (Matrix{0, 0, 0, 0, 0, 0}).Inverse(); ok {
		t.Fatal("expected singular matrix to report not-invertible")
	}
}

func TestRectUnionWithEmpty(t *testing.T) {
	r := RectFromPoints(Point{0, 0}, Point{10, 10})
	if got := EmptyRect().Union(r); got != r {
		t.Fatalf("empty union = %v, want %v", got, r)
	}
	if got := r.Union(EmptyRect()); got != r {
		t.Fatalf("union empty = %v, want %v", got, r)
	}
}

func TestRectDilate(t *testing.T) {
	r := RectFromPoints(Point{10, 10}, Point{20, 20})
	d := r.Dilate(5)
	want := Rect{LLX: 5, LLY: 5, URX: 25, URY: 25}
	if d != want {
		t.Fatalf("dilate = %v, want %v", d, want)
	}
}

func TestRectTransformedByRotation(t *testing.T) {
	r := RectFromPoints(Point{0, 0}, Point{10, 0})
	rotated := r.TransformedBy(Rotate(1.5707963267948966))
	if rotated.Width() > 1e-6 {
		t.Fatalf("expected a near-zero-width rect after quarter turn of a horizontal segment, got width %v", rotated.Width())
	}
}

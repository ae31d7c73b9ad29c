package types

import (
	"math"
	"testing"
)

func TestCuboid(t *testing.T) {
	type spec struct {
		min    Vec3
		max    Vec3
		expMin Vec3
		expMax Vec3
	}
	specs := []spec{
		{Vec3{0, 0, 0}, Vec3{1, 1, 1}, Vec3{0, 0, 0}, Vec3{1, 1, 1}},
		{Vec3{0, 0, 0}, Vec3{4, 1, 2}, Vec3{0, 0, 0}, Vec3{4, 4, 4}},
		{Vec3{-1, -2, -3}, Vec3{1, 2, 3}, Vec3{-1, -2, -3}, Vec3{5, 4, 3}},
	}

	for index, s := range specs {
		b := BoundsFromMinMax(s.min, s.max).Cuboid()
		if !b.IsCube() {
			t.Fatalf("[spec %d] expected a cube; got extents %v", index, b.Extents)
		}
		if !b.Min().ApproxEqual(s.expMin) || !b.Max().ApproxEqual(s.expMax) {
			t.Fatalf("[spec %d] expected cube [%v, %v]; got [%v, %v]", index, s.expMin, s.expMax, b.Min(), b.Max())
		}
	}
}

func TestContainsIsInclusive(t *testing.T) {
	b := BoundsFromMinMax(Vec3{0, 0, 0}, Vec3{2, 2, 2})

	type spec struct {
		p   Vec3
		exp bool
	}
	specs := []spec{
		{Vec3{1, 1, 1}, true},
		{Vec3{0, 0, 0}, true},
		{Vec3{2, 2, 2}, true},
		{Vec3{2, 1, 0}, true},
		{Vec3{2.001, 1, 1}, false},
		{Vec3{1, -0.001, 1}, false},
	}

	for index, s := range specs {
		if got := b.Contains(s.p); got != s.exp {
			t.Fatalf("[spec %d] expected Contains(%v) to be %t; got %t", index, s.p, s.exp, got)
		}
	}
}

func TestEncapsulate(t *testing.T) {
	b := BoundsFromMinMax(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b = b.Encapsulate(BoundsFromMinMax(Vec3{3, -1, 0}, Vec3{4, 0, 1}))

	if !b.Min().ApproxEqual(Vec3{0, -1, 0}) || !b.Max().ApproxEqual(Vec3{4, 1, 1}) {
		t.Fatalf("expected [0,-1,0]-[4,1,1]; got %v-%v", b.Min(), b.Max())
	}
}

func TestSubdivideOrder(t *testing.T) {
	b := BoundsFromMinMax(Vec3{0, 0, 0}, Vec3{2, 2, 2})
	cells := b.Subdivide(2)
	if len(cells) != 8 {
		t.Fatalf("expected 8 cells; got %d", len(cells))
	}

	expCenters := []Vec3{
		{0.5, 0.5, 0.5}, {0.5, 0.5, 1.5}, {0.5, 1.5, 0.5}, {0.5, 1.5, 1.5},
		{1.5, 0.5, 0.5}, {1.5, 0.5, 1.5}, {1.5, 1.5, 0.5}, {1.5, 1.5, 1.5},
	}
	for index, c := range cells {
		if !c.Center.ApproxEqual(expCenters[index]) {
			t.Fatalf("[cell %d] expected center %v; got %v", index, expCenters[index], c.Center)
		}
		if !c.Size().ApproxEqual(Vec3{1, 1, 1}) {
			t.Fatalf("[cell %d] expected unit size; got %v", index, c.Size())
		}
	}

	corners := b.Corners()
	if !corners[0].ApproxEqual(b.Min()) || !corners[7].ApproxEqual(b.Max()) {
		t.Fatalf("expected first/last corner to be min/max; got %v, %v", corners[0], corners[7])
	}
}

func TestTransformRotatedBox(t *testing.T) {
	b := BoundsFromMinMax(Vec3{-1, -0.5, -0.5}, Vec3{1, 0.5, 0.5})
	rot := QuatFromAxisAngle(Vec3{0, 1, 0}, math.Pi/2)

	out := b.Transform(Vec3{10, 0, 0}, rot, Vec3{1, 1, 1})
	if !out.Center.ApproxEqual(Vec3{10, 0, 0}) {
		t.Fatalf("expected center (10,0,0); got %v", out.Center)
	}
	if !out.Size().ApproxEqual(Vec3{1, 1, 2}) {
		t.Fatalf("expected rotated size (1,1,2); got %v", out.Size())
	}
}

func TestDegenerate(t *testing.T) {
	if !(Bounds{}).IsDegenerate() {
		t.Fatal("expected zero bounds to be degenerate")
	}
	if NewBounds(Vec3{}, Vec3{1, 0, 0}).IsDegenerate() {
		t.Fatal("expected flat bounds with a non-zero diagonal not to be degenerate")
	}
}

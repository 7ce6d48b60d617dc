package model

import "testing"

func TestRoutePointAtInterpolatesPolyline(t *testing.T) {
	r := Route{
		Waypoints: []Point{{X: 0}, {X: 10}, {X: 10, Y: 10}},
		Length:    20,
	}
	cases := []struct {
		dist float64
		want Point
	}{
		{0, Point{X: 0}},
		{-3, Point{X: 0}},
		{5, Point{X: 5}},
		{10, Point{X: 10}},
		{15, Point{X: 10, Y: 5}},
		{20, Point{X: 10, Y: 10}},
		{99, Point{X: 10, Y: 10}},
	}
	for _, tc := range cases {
		if got := r.PointAt(tc.dist); got != tc.want {
			t.Errorf("PointAt(%v) = %+v, want %+v", tc.dist, got, tc.want)
		}
	}
	if got := r.End(); got != (Point{X: 10, Y: 10}) {
		t.Errorf("End() = %+v", got)
	}
}

func TestRouteEmpty(t *testing.T) {
	var r Route
	if r.End() != (Point{}) {
		t.Errorf("empty route End() = %+v", r.End())
	}
	if r.PointAt(5) != (Point{}) {
		t.Errorf("empty route PointAt = %+v", r.PointAt(5))
	}
}

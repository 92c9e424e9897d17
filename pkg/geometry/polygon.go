package geometry

import "math"

// PolygonArea returns the unsigned area of a closed polygon (shoelace formula).
func PolygonArea(polygon []PointInt) float64 {
	if len(polygon) < 3 {
		return 0
	}

	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		sum += float64(a.X*b.Y - b.X*a.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed polygon, including the edge from
// the last vertex back to the first.
func Perimeter(polygon []PointInt) float64 {
	if len(polygon) < 2 {
		return 0
	}

	var total float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		total += polygon[i].ToFloat().Distance(polygon[(i+1)%n].ToFloat())
	}
	return total
}

// Centroid returns the area centroid of a closed polygon. Degenerate
// polygons fall back to the mean of their vertices.
func Centroid(polygon []PointInt) Point2D {
	if len(polygon) == 0 {
		return Point2D{}
	}

	var cross, cx, cy float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i].ToFloat()
		b := polygon[(i+1)%n].ToFloat()
		c := a.X*b.Y - b.X*a.Y
		cross += c
		cx += (a.X + b.X) * c
		cy += (a.Y + b.Y) * c
	}
	if cross == 0 {
		var sx, sy float64
		for _, p := range polygon {
			sx += float64(p.X)
			sy += float64(p.Y)
		}
		return Point2D{X: sx / float64(n), Y: sy / float64(n)}
	}
	return Point2D{X: cx / (3 * cross), Y: cy / (3 * cross)}
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []PointInt) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		pi, pj := polygon[i].ToFloat(), polygon[(i+1)%n].ToFloat()

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

package core

import "gonum.org/v1/gonum/spatial/r2"

// segmentCrossing returns the point where the open segments p1–p2 and q1–q2
// cross, if they do. Touching at a shared endpoint does not count, and
// zero-length segments never cross anything: a degenerate segment makes the
// cross-product denominator zero, which is reported as no intersection
// rather than dividing through it.
func segmentCrossing(p1, p2, q1, q2 r2.Vec) (r2.Vec, bool) {
	d1 := r2.Sub(p2, p1)
	d2 := r2.Sub(q2, q1)

	denom := r2.Cross(d1, d2)
	if denom == 0 {
		// Parallel, collinear, or degenerate.
		return r2.Vec{}, false
	}

	qp := r2.Sub(q1, p1)
	t := r2.Cross(qp, d2) / denom
	u := r2.Cross(qp, d1) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return r2.Vec{}, false
	}
	return r2.Add(p1, r2.Scale(t, d1)), true
}

// segmentsIntersect reports whether the open segments p1–p2 and q1–q2 cross.
func segmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	_, ok := segmentCrossing(p1, p2, q1, q2)
	return ok
}

// mirrorAcross reflects p across the infinite line through a and b. A
// degenerate a==b line returns p unchanged.
func mirrorAcross(p, a, b r2.Vec) r2.Vec {
	d := r2.Sub(b, a)
	len2 := r2.Norm2(d)
	if len2 == 0 {
		return p
	}

	// Foot of the perpendicular from p onto the line.
	t := r2.Dot(r2.Sub(p, a), d) / len2
	foot := r2.Add(a, r2.Scale(t, d))
	return r2.Sub(r2.Scale(2, foot), p)
}

// distance returns the Euclidean distance between two points.
func distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

package voxelize

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// rayEpsilon bounds the strictly-positive requirement on the ray
	// parameter and the parallel-ray determinant test.
	rayEpsilon = 1e-9
	// grazeEpsilon is the barycentric margin inside which a hit counts as
	// grazing a triangle edge or vertex.
	grazeEpsilon = 1e-7
)

// baseDirection is the fixed, non-axis-aligned ray direction used for every
// parity test in a run. Normalized at classifier construction.
var baseDirection = v3.Vec{X: 1, Y: 0.1, Z: 0.3}

// perturbations are deterministic fallback offsets applied to the ray
// direction when a test grazes an edge or vertex. A fixed table instead of
// a shared RNG keeps retries reproducible and safe under parallel
// classification. Values are arbitrary small irrational-ish offsets with no
// zero components.
var perturbations = [...]v3.Vec{
	{X: 0.0137, Y: -0.0071, Z: 0.0043},
	{X: -0.0059, Y: 0.0113, Z: -0.0087},
	{X: 0.0091, Y: 0.0067, Z: -0.0151},
	{X: -0.0173, Y: -0.0041, Z: 0.0109},
}

// Classifier decides solid membership of points by counting ray crossings
// of a world-space triangle set: an odd crossing count means inside
// (even-odd rule). The triangle set is read-only; a Classifier may be used
// from multiple goroutines.
type Classifier struct {
	tris []*sdf.Triangle3
	dir  v3.Vec
}

// NewClassifier builds a classifier over a world-space triangle set.
func NewClassifier(tris []*sdf.Triangle3) *Classifier {
	return &Classifier{
		tris: tris,
		dir:  baseDirection.Normalize(),
	}
}

// Inside reports whether p lies inside the solid bounded by the triangle
// set. An empty set classifies everything as outside. A cast that grazes an
// edge or vertex is retried with a perturbed direction; if every retry
// grazes too, the last parity is accepted (possible misclassification on
// pathological geometry, by the documented edge policy).
func (c *Classifier) Inside(p v3.Vec) bool {
	if len(c.tris) == 0 {
		return false
	}
	dir := c.dir
	count, grazed := c.countCrossings(p, dir)
	for i := 0; grazed && i < len(perturbations); i++ {
		dir = c.dir.Add(perturbations[i]).Normalize()
		count, grazed = c.countCrossings(p, dir)
	}
	return count%2 == 1
}

// countCrossings casts a ray from origin along dir and counts triangle
// crossings with a strictly positive ray parameter. grazed is set when any
// intersection lands within grazeEpsilon of a triangle edge or vertex, or
// within rayEpsilon of the origin, making the parity unreliable.
func (c *Classifier) countCrossings(origin, dir v3.Vec) (count int, grazed bool) {
	for _, t := range c.tris {
		hit, graze := rayCrossesTriangle(origin, dir, t)
		if graze {
			return count, true
		}
		if hit {
			count++
		}
	}
	return count, false
}

// rayCrossesTriangle is the Möller–Trumbore intersection test reduced to a
// boolean crossing decision. Rays parallel to the triangle plane do not
// cross. Hits report graze when the barycentric coordinates sit on the
// triangle boundary or the hit is at the ray origin.
func rayCrossesTriangle(origin, dir v3.Vec, t *sdf.Triangle3) (hit, graze bool) {
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		// Parallel to the plane: no crossing either way.
		return false, false
	}
	inv := 1 / det

	s := origin.Sub(t[0])
	u := s.Dot(p) * inv
	if u < -grazeEpsilon || u > 1+grazeEpsilon {
		return false, false
	}

	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < -grazeEpsilon || u+v > 1+grazeEpsilon {
		return false, false
	}

	dist := e2.Dot(q) * inv
	if dist <= rayEpsilon {
		if dist > -rayEpsilon && u >= -grazeEpsilon && v >= -grazeEpsilon && u+v <= 1+grazeEpsilon {
			// Origin sits on the triangle itself.
			return false, true
		}
		return false, false
	}

	if u < grazeEpsilon || v < grazeEpsilon || u+v > 1-grazeEpsilon {
		return false, true
	}
	return true, false
}

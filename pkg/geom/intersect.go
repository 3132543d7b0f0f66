package geom

// PointSideOfLine returns the signed area of the triangle (lineStart,
// lineEnd, p): positive when p is to the left of the directed line
// lineStart->lineEnd, negative when to the right, zero when exactly
// on the line. Callers decide what tolerance (if any) "on the line"
// needs; this function never rounds.
func PointSideOfLine(p, lineStart, lineEnd Vector) float64 {
	return Cross(lineEnd.Subtract(lineStart), p.Subtract(lineStart))
}

// ParametricT returns s such that point = start + s*(end-start),
// projecting point onto the line through start/end. Returns 0 if
// start == end (a degenerate, zero-length line), since there is no
// well-defined projection.
func ParametricT(point, start, end Vector) float64 {
	d := end.Subtract(start)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return 0
	}
	return Dot(point.Subtract(start), d) / lenSq
}

// ReflectPointThroughLine reflects p across the infinite line through
// lineStart and lineEnd. A degenerate (zero-length) line is treated as
// the identity reflection, since there is no line to reflect across.
func ReflectPointThroughLine(p, lineStart, lineEnd Vector) Vector {
	d := lineEnd.Subtract(lineStart)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return p
	}
	t := Dot(p.Subtract(lineStart), d) / lenSq
	closest := lineStart.Add(d.Scale(t))
	// p reflected through closest is 2*closest - p
	return closest.Scale(2).Subtract(p)
}

// LineLineIntersection intersects the infinite line through
// (rayOrigin, rayOrigin+rayDir) with the infinite line through
// (segStart, segEnd). It returns:
//   - t: the parameter along the ray (rayOrigin + t*rayDir == point)
//   - s: the parameter along the segment (segStart + s*(segEnd-segStart) == point)
//   - point: the intersection point
//   - ok: false iff the two directions are exactly parallel (the
//     denominator is exactly zero); s outside [0,1] or t<0 does NOT
//     make ok false - callers decide what that means (the planned
//     path keeps off-segment hits, the actual tracer rejects them).
func LineLineIntersection(rayOrigin, rayDir, segStart, segEnd Vector) (t, s float64, point Vector, ok bool) {
	segDir := segEnd.Subtract(segStart)
	denom := Cross(rayDir, segDir)
	if denom == 0 {
		return 0, 0, Vector{}, false
	}
	diff := segStart.Subtract(rayOrigin)
	t = Cross(diff, segDir) / denom
	s = Cross(diff, rayDir) / denom
	return t, s, rayOrigin.Add(rayDir.Scale(t)), true
}

// RaySegmentIntersect intersects a ray with a finite segment. It
// returns ok=false when the lines are parallel, when the intersection
// lies behind the ray origin (t<0), or when it falls outside the
// segment (s outside [0,1]). Use LineLineIntersection directly when
// off-segment or behind-origin hits still matter (the planned path
// builder needs them).
func RaySegmentIntersect(ray Ray, seg Segment) (t, s float64, point Vector, ok bool) {
	t, s, point, ok = LineLineIntersection(ray.Origin, ray.Direction, seg.Start, seg.End)
	if !ok {
		return 0, 0, Vector{}, false
	}
	if t < 0 || s < 0 || s > 1 {
		return 0, 0, Vector{}, false
	}
	return t, s, point, true
}

// ReflectDirection reflects direction d about a surface with unit
// normal n: r = d - 2*(d.n)*n.
func ReflectDirection(d, n Vector) Vector {
	return d.Subtract(n.Scale(2 * Dot(d, n)))
}

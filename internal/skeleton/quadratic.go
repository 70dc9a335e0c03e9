package skeleton

import "math"

// solveQuadratic returns the real roots of a*x*x + b*x + c = 0, numerically
// stable root first. Near duplicate roots come back as one.
func solveQuadratic(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	p := -b / a / 2
	q := c / a
	discr := p*p - q
	if math.Abs(discr) < 2e-7*math.Abs(q) {
		return []float64{p}
	}
	if discr < 0 {
		return nil
	}
	x1 := p + math.Copysign(math.Sqrt(discr), p)
	if x1 == 0 {
		return []float64{x1}
	}
	return []float64{x1, q / x1}
}

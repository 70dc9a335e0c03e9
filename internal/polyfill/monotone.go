package polyfill

import "github.com/osuushi/meshinset/internal/throw"

// Facilities for converting a Y-monotone polygon into triangles. A Y monotone
// polygon is a simple polygon such that any horizontal line intersects at most
// two edges.
//
// The lexicographic Point.Below() method is used to simulate a slightly rotated
// coordinate system that eliminates horizontal segments but note that this
// affects where horizontal segments are allowed while maintaining strict
// monotonicity. Specifically, on the left chain, a horizontal edge must sit
// _above_ the inside of the polygon, while on the right chain, it must sit
// _below_.
//
// Note that the polygon must be counterclockwise. Triangles are returned as
// indices into points.

func TriangulateMonotone(points []Point) []Triangle {
	n := len(points)
	if n < 3 {
		throw.Fatalf("cannot triangulate degenerate polygon with point count: %d", n)
	}
	if n == 3 {
		return []Triangle{{0, 1, 2}}
	}

	triangles := make([]Triangle, 0, n-2)

	// Sort points so top point is at the top of the array.
	sorted := make([]int, 0, n)

	// Find the top point
	var topIndex int
	for i, point := range points {
		if point.Above(points[topIndex]) {
			topIndex = i
		}
	}

	sorted = append(sorted, topIndex)

	// Structure for determining which chain a point is on the left or right chain
	leftChain := map[int]struct{}{}
	var isLeft = func(i int) bool {
		_, ok := leftChain[i]
		return ok
	}

	// Merge sort points starting from top, noting which are on the left chain,
	// and track the bottom point separately
	leftOffset := 1
	rightOffset := 1
	var bottom int
	for {
		left := CircularIndex(topIndex+leftOffset, n)
		right := CircularIndex(topIndex-rightOffset, n)

		// If we've met up, we're done. We don't add the bottom point to the list,
		// as it's handled at the very end.
		if left == right {
			bottom = left
			break
		}

		if points[left].Above(points[right]) {
			leftChain[left] = struct{}{}
			sorted = append(sorted, left)
			leftOffset++
		} else {
			sorted = append(sorted, right)
			rightOffset++
		}
	}
	// Create the stack and populate it with the first two points
	stack := make(IndexStack, 0)
	stack.Push(sorted[0])
	stack.Push(sorted[1])
	for i, p := range sorted[2:] {
		// Adjust index to account for the offset
		i := i + 2

		left := isLeft(p)
		if left != isLeft(stack.Peek()) { // If switched to opposite side chain
			// Monotonicity guarantees that all stack points are visible from the
			// current point, so we can empty the entire stack, making new triangles
			for !stack.Empty() {
				a := stack.Pop()
				if !stack.Empty() {
					b := stack.Peek()
					if left {
						/*
						              b
						             /|
						 diagonal-> / |
						           p--a
						*/
						triangles = appendTriangle(points, triangles, Triangle{p, a, b})
					} else {
						/*
							b
							|\ <- Diagonal
							| \
							a--p
						*/
						triangles = appendTriangle(points, triangles, Triangle{a, p, b})
					}
				}
			}
			// Put the last two points on the stack
			stack.Push(sorted[i-1])
			stack.Push(sorted[i])
		} else { // Same side chain
			// Always pop the last point off. If we don't create any triangles this
			// time, we'll put it back
			v := stack.Pop()

			for !stack.Empty() {
				topOfStack := stack.Peek()
				// The easiest way to see if the point "sees" the top of the stack is to
				// try creating the triangle, and see if it's CCW
				var potential Triangle
				if left {
					potential = Triangle{p, topOfStack, v}
				} else {
					potential = Triangle{p, v, topOfStack}
				}
				if IsCCW(points, potential) {
					v = stack.Pop()
					triangles = append(triangles, potential)
				} else {
					break
				}
			}

			// Put the last v back on the stack, and then the current point
			stack.Push(v)
			stack.Push(p)
		}
	}

	// Finally, add triangles for all remaining points on the stack. Note that we
	// always have two points.
	l := stack.Pop()
	for !stack.Empty() {
		p := stack.Pop()
		// Stopping before the last point, as a diagonal-only version of this
		// algorithm would, drops the bottom point from the final triangle when
		// only two points remain on the stack.
		if isLeft(l) {
			triangles = appendTriangle(points, triangles, Triangle{bottom, p, l})
		} else {
			triangles = appendTriangle(points, triangles, Triangle{bottom, l, p})
		}
		l = p
	}
	return triangles
}

// This is pulled out so that it's easy to add instrumentation.
func appendTriangle(points []Point, triangles []Triangle, tri Triangle) []Triangle {
	if tri.area(points) < -Tolerance {
		throw.Fatalf("triangle is clockwise: %v", tri)
	}

	return append(triangles, tri)
}

// isMonotone reports whether the CCW polygon has exactly one local maximum in
// the lexicographic ordering, which makes it Y-monotone.
func isMonotone(points []Point) bool {
	n := len(points)
	maxima := 0
	for i, p := range points {
		prev := points[CircularIndex(i-1, n)]
		next := points[CircularIndex(i+1, n)]
		if prev.Below(p) && next.Below(p) {
			maxima++
		}
	}
	return maxima == 1
}

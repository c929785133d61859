package textutil

import "math"

// InfixDistance returns the edit distance of the best alignment of the shorter
// text anywhere inside the longer one. Leading and trailing gaps in the longer
// text are free.
func InfixDistance(a, b string) int {
	query, target := orderByLength([]rune(a), []rune(b))
	d, _ := boundedInfix(query, target, -1)
	return d
}

// TextDistance returns InfixDistance divided by the length of the shorter text.
// Empty input on either side yields the maximum distance of 1.
func TextDistance(a, b string) float64 {
	if a == "" || b == "" {
		return 1
	}
	query, target := orderByLength([]rune(a), []rune(b))
	d, _ := boundedInfix(query, target, -1)
	return float64(d) / float64(len(query))
}

// WithinDistance reports whether TextDistance(a, b) is strictly below maxRatio.
// The alignment stops as soon as the bound can no longer be met.
func WithinDistance(a, b string, maxRatio float64) bool {
	if a == "" || b == "" || maxRatio <= 0 {
		return false
	}
	query, target := orderByLength([]rune(a), []rune(b))
	limit := int(math.Ceil(maxRatio*float64(len(query)))) - 1
	if limit < 0 {
		return false
	}
	_, ok := boundedInfix(query, target, limit)
	return ok
}

func orderByLength(a, b []rune) ([]rune, []rune) {
	if len(a) > len(b) {
		return b, a
	}
	return a, b
}

// boundedInfix computes the infix distance of query within target. A negative
// limit disables the bound. With a bound, ok is false once every cell of a row
// exceeds limit, since row minima never decrease.
func boundedInfix(query, target []rune, limit int) (int, bool) {
	n, m := len(query), len(target)
	if n == 0 {
		return 0, true
	}
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	// Row 0 is all zeros: the alignment may start anywhere in target.
	for i := 1; i <= n; i++ {
		curr[0] = i
		rowMin := curr[0]
		q := query[i-1]
		for j := 1; j <= m; j++ {
			cost := prev[j-1]
			if q != target[j-1] {
				cost++
			}
			if v := prev[j] + 1; v < cost {
				cost = v
			}
			if v := curr[j-1] + 1; v < cost {
				cost = v
			}
			curr[j] = cost
			if cost < rowMin {
				rowMin = cost
			}
		}
		if limit >= 0 && rowMin > limit {
			return rowMin, false
		}
		prev, curr = curr, prev
	}
	best := prev[0]
	for _, v := range prev[1:] {
		if v < best {
			best = v
		}
	}
	if limit >= 0 && best > limit {
		return best, false
	}
	return best, true
}

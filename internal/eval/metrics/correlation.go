package metrics

import (
	"math"
	"slices"
)

// Pearson computes the linear correlation coefficient of x and y. It returns 0
// when the inputs differ in length, hold fewer than two values, or either side
// has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}

	mx, my := Mean(x), Mean(y)

	var sxy, sxx, syy float64
	for i := range n {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// Spearman computes the rank correlation of x and y: the Pearson coefficient of
// their fractional ranks.
func Spearman(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return Pearson(Ranks(x), Ranks(y))
}

// Ranks assigns 1-based ranks in ascending order, tied values sharing the mean
// of the ranks they span.
func Ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case values[a] < values[b]:
			return -1
		case values[a] > values[b]:
			return 1
		default:
			return 0
		}
	})

	ranks := make([]float64, len(values))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for _, i := range idx[start:end] {
			ranks[i] = avg
		}
		start = end
	}
	return ranks
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

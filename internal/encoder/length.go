package encoder

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// KeyValue is one field of a Keyed item.
type KeyValue struct {
	Key   string
	Value string
}

// Keyed is an input made of named text fields. Field order is significant:
// only the first value counts towards its length.
type Keyed []KeyValue

// Lengther is implemented by inputs that know their own length.
type Lengther interface {
	Len() int
}

// EstimateLength approximates how long an input is once tokenized.
//
// Keyed items count their first value, integer sequences (pre-tokenized input)
// and empty sequences count their elements, strings count characters and groups
// of strings sum their members. Anything else counts as 1.
func EstimateLength(item any) int {
	switch v := item.(type) {
	case Keyed:
		if len(v) == 0 {
			return 0
		}
		return utf8.RuneCountInString(v[0].Value)
	case string:
		return utf8.RuneCountInString(v)
	case []int:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case []string:
		var total int
		for _, s := range v {
			total += utf8.RuneCountInString(s)
		}
		return total
	case Lengther:
		return v.Len()
	default:
		return 1
	}
}

// SortByLength returns the permutation that orders items by ascending
// estimated length. Items of equal length keep their relative order.
func SortByLength[T any](items []T) []int {
	lengths := make([]int, len(items))
	order := make([]int, len(items))
	for i, item := range items {
		lengths[i] = EstimateLength(item)
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(lengths[a], lengths[b])
	})

	return order
}

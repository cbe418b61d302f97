package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sized struct{ n int }

func (s sized) Len() int { return s.n }

func TestEstimateLength(t *testing.T) {
	tests := []struct {
		name string
		item any
		want int
	}{
		{name: "string", item: "abc", want: 3},
		{name: "multibyte string counts characters", item: "žéç", want: 3},
		{name: "empty string", item: "", want: 0},
		{name: "token ids", item: []int{101, 7592, 2088, 999, 102}, want: 5},
		{name: "int64 token ids", item: []int64{1, 2}, want: 2},
		{name: "empty token ids", item: []int{}, want: 0},
		{name: "sentence pair", item: []string{"ab", "cde"}, want: 5},
		{name: "empty group", item: []string{}, want: 0},
		{name: "keyed uses first value", item: Keyed{{Key: "query", Value: "four"}, {Key: "doc", Value: "ignored text"}}, want: 4},
		{name: "empty keyed", item: Keyed{}, want: 0},
		{name: "lengther", item: sized{n: 9}, want: 9},
		{name: "no length concept", item: struct{}{}, want: 1},
		{name: "number", item: 42, want: 1},
		{name: "nil", item: nil, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateLength(tt.item))
		})
	}
}

func TestSortByLength_Stable(t *testing.T) {
	items := []string{"bb", "a", "cc", "d", "eee"}

	order := SortByLength(items)

	assert.Equal(t, []int{1, 3, 0, 2, 4}, order)
}

func TestSortByLength_Empty(t *testing.T) {
	assert.Empty(t, SortByLength([]string{}))
}

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mkRange(startByte, endByte, startRow, endRow int) Range {
	return Range{
		StartByte:  startByte,
		EndByte:    endByte,
		StartPoint: Point{Row: startRow},
		EndPoint:   Point{Row: endRow},
	}
}

func TestContains(t *testing.T) {
	outer := mkRange(0, 100, 0, 10)

	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"fully inside", mkRange(10, 50, 1, 5), true},
		{"identical", mkRange(0, 100, 0, 10), true},
		{"starts before", mkRange(0, 50, 0, 5), true},
		{"extends past end", mkRange(50, 150, 5, 15), false},
		{"entirely after", mkRange(150, 200, 15, 20), false},
		{"empty span inside", mkRange(42, 42, 4, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.other))
		})
	}
}

func TestContains_NotSymmetric(t *testing.T) {
	outer := mkRange(0, 100, 0, 10)
	inner := mkRange(10, 50, 1, 5)

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
}

func TestContainsLine_Strict(t *testing.T) {
	outer := mkRange(0, 100, 2, 8)

	assert.True(t, outer.ContainsLine(mkRange(0, 0, 3, 7), false))
	assert.True(t, outer.ContainsLine(mkRange(0, 0, 2, 8), false))
	assert.False(t, outer.ContainsLine(mkRange(0, 0, 1, 5), false))
	assert.False(t, outer.ContainsLine(mkRange(0, 0, 5, 9), false))
}

func TestContainsLine_Overlap(t *testing.T) {
	outer := mkRange(0, 100, 2, 8)

	// Partial row overlap on either side is accepted.
	assert.True(t, outer.ContainsLine(mkRange(0, 0, 1, 5), true))
	assert.True(t, outer.ContainsLine(mkRange(0, 0, 5, 9), true))
	assert.True(t, outer.ContainsLine(mkRange(0, 0, 3, 7), true))
	// Disjoint rows are still rejected.
	assert.False(t, outer.ContainsLine(mkRange(0, 0, 10, 12), true))
}

func TestLines(t *testing.T) {
	r := mkRange(0, 100, 3, 9)
	start, end := r.Lines()
	assert.Equal(t, 3, start)
	assert.Equal(t, 9, end)
}

// Package text provides byte- and line-addressed source intervals used by
// the scope and repo graph layers for containment tests.
package text

import "fmt"

// Point is a zero-based row/column position in a source file.
type Point struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Range is a contiguous span of source text, tracked both as a byte interval
// and as row/column points. StartByte is inclusive, EndByte exclusive.
type Range struct {
	StartByte  int   `json:"start_byte"`
	EndByte    int   `json:"end_byte"`
	StartPoint Point `json:"start_point"`
	EndPoint   Point `json:"end_point"`
}

// Contains reports whether other's byte interval lies fully inside r.
func (r Range) Contains(other Range) bool {
	return other.StartByte >= r.StartByte && other.EndByte <= r.EndByte
}

// ContainsLine is the line-granularity analogue of Contains. With overlap
// false, all of other's rows must fall inside r's rows; with overlap true,
// any shared row is enough.
func (r Range) ContainsLine(other Range, overlap bool) bool {
	if overlap {
		return (other.StartPoint.Row >= r.StartPoint.Row && other.StartPoint.Row <= r.EndPoint.Row) ||
			(other.EndPoint.Row <= r.EndPoint.Row && other.EndPoint.Row >= r.StartPoint.Row)
	}
	return other.StartPoint.Row >= r.StartPoint.Row && other.EndPoint.Row <= r.EndPoint.Row
}

// Lines returns the start and end rows covered by the range.
func (r Range) Lines() (start, end int) {
	return r.StartPoint.Row, r.EndPoint.Row
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)@%d:%d-%d:%d",
		r.StartByte, r.EndByte,
		r.StartPoint.Row, r.StartPoint.Column,
		r.EndPoint.Row, r.EndPoint.Column)
}

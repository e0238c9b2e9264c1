package output

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either an object key or an array index.
type Segment struct {
	Key   string
	Index int
	// IsIndex distinguishes an array index segment from a key segment.
	IsIndex bool
}

// Path addresses a node within a nested record as an ordered sequence of
// typed segments. The root is the empty path. Paths render to the dotted /
// bracketed string notation ("servers[0].packages[2].readme") only at the
// matcher and placeholder boundary.
type Path []Segment

// Child returns the path extended by an object key segment.
func (p Path) Child(key string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, Segment{Key: key})
}

// Element returns the path extended by an array index segment.
func (p Path) Element(index int) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, Segment{Index: index, IsIndex: true})
}

// Depth is the number of segments in the path. The root has depth 0.
func (p Path) Depth() int {
	return len(p)
}

// String renders the path in dotted/bracketed notation with concrete
// array indices.
func (p Path) String() string {
	return p.render(false)
}

// Normalized renders the path with every array index replaced by the
// empty-bracket wildcard, so one expand entry covers all elements of an
// array. Used only for expansion matching and placeholder messages.
func (p Path) Normalized() string {
	return p.render(true)
}

func (p Path) render(normalized bool) string {
	var b strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			if normalized {
				b.WriteString("[]")
			} else {
				b.WriteByte('[')
				b.WriteString(strconv.Itoa(seg.Index))
				b.WriteByte(']')
			}
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

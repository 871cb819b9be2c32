package pptx

import (
	"fmt"
	"strconv"
	"strings"
)

// Address locates a text-bearing shape: the slide index plus the index
// path through nested groups, outermost first.
type Address struct {
	Slide int
	Path  []int
}

func (a Address) Key() string {
	return fmt.Sprintf("slide/%d/shape/%s", a.Slide, joinPath(a.Path, "."))
}

func (a Address) String() string {
	return fmt.Sprintf("slide %d shape %s", a.Slide, joinPath(a.Path, "/"))
}

// Depth is the nesting level of the shape; top-level shapes are at 1.
func (a Address) Depth() int {
	return len(a.Path)
}

func joinPath(path []int, sep string) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, sep)
}

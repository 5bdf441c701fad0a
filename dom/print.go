package dom

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/oy3o/rbxdom/value"
)

// Fprint writes a deterministic listing of tree to w. Instances are
// numbered in preorder and printed as "ClassName #n", indented by depth,
// followed by their properties in lexical order. Refs print as the target's
// number so output does not depend on referent values.
func Fprint(w io.Writer, tree *Tree) error {
	order := preorder(tree)
	index := make(map[value.Referent]int, len(order))
	for i, inst := range order {
		index[inst.referent] = i
	}

	bw := bufio.NewWriter(w)
	depths := make(map[value.Referent]int, len(order))
	for i, inst := range order {
		depth := 0
		if !inst.parent.IsNone() {
			depth = depths[inst.parent] + 1
		}
		depths[inst.referent] = depth
		pad := strings.Repeat("  ", depth)

		fmt.Fprintf(bw, "%s%s #%d\n", pad, inst.className, i)
		for _, name := range inst.PropertyNames() {
			v := inst.properties[name]
			fmt.Fprintf(bw, "%s  . %s (%s) = %s\n", pad, name, v.Type(), formatValue(v, index))
		}
	}
	return bw.Flush()
}

func formatValue(v value.Value, index map[value.Referent]int) string {
	r, ok := v.(value.Ref)
	if !ok {
		return value.Format(v)
	}
	if r.IsNull() {
		return "null"
	}
	if i, ok := index[r.Referent]; ok {
		return fmt.Sprintf("#%d", i)
	}
	return "dangling"
}

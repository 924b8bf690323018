package rewrite

import (
	"sort"

	"astrie/internal/errors"
	"astrie/internal/ir"
)

// OrderByDependency returns nodes reordered so that every declaration comes
// after the declarations it holds by value. Pointer-like indirections do not
// constrain the order; optionals and containers do. Among available nodes
// the one appearing first in the input wins, so the result is deterministic
// and an already ordered list is returned unchanged. When the by-value graph
// has a cycle the input order is returned and ok is false.
func OrderByDependency(nodes []ir.Node) (ordered []ir.Node, ok bool) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.DeclName()]; !dup {
			index[n.DeclName()] = i
		}
	}

	order, err := topoSort(len(nodes), func(i int) []int {
		var deps []int

		for _, name := range valueRefs(nodes[i]) {
			if j, found := index[name]; found && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return nodes, false
	}

	out := make([]ir.Node, len(order))
	for i, idx := range order {
		out[i] = nodes[idx]
	}

	return out, true
}

// valueRefs lists the names n embeds by value, with duplicates.
func valueRefs(n ir.Node) []string {
	var refs []string

	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		switch v := t.(type) {
		case *ir.NamedRef:
			refs = append(refs, v.Name)
		case *ir.Indirection:
			if v.Reified.IsOwnership() {
				return
			}

			visit(v.Elem)
		case *ir.Parameterized:
			for _, a := range v.Args {
				visit(a)
			}
		case *ir.Inline:
			if v.Struct != nil {
				refs = append(refs, valueRefs(v.Struct)...)
			}
		}
	}

	switch d := n.(type) {
	case *ir.Struct:
		if d.Base != "" {
			refs = append(refs, d.Base)
		}

		for _, m := range d.Members {
			switch mm := m.(type) {
			case *ir.Field:
				visit(mm.Type)
			case *ir.Oneof:
				for _, alt := range mm.Alternatives {
					visit(alt.Type)
				}
			case *ir.Struct:
				refs = append(refs, valueRefs(mm)...)
			}
		}
	case *ir.Enum:
		for _, v := range d.Values {
			visit(v.Payload)
		}
	case *ir.Oneof:
		for _, alt := range d.Alternatives {
			visit(alt.Type)
		}
	}

	return refs
}

// topoSort returns indices in dependency order.
//
// Nodes are by index in the input slice.
// depsFn(i) yields indices that must come before i.
//
// When multiple nodes are available the smallest index is picked. If a cycle
// exists, an error is returned.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, errors.Newf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// keep ready sorted
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, errors.New("cycle detected")
	}

	return order, nil
}

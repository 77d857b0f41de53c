// Package traverse implements the cycle-safe, pruning traversal of spec.md
// §4.3: it visits every facade reachable from a root recognized container,
// in parent-first or child-first order, descending through plain
// intermediate containers to find facades nested inside literal
// object/array assignments.
package traverse

import (
	"flux/container"
	"flux/facade"
)

// Visitor is invoked once per facade reached. pathValues is the sequence of
// containers from root to the facade (inclusive); pathKeys is the sequence
// of keys taken (one shorter). In parent-first mode, returning false prunes
// descent into that facade's subtree; the return value is otherwise
// ignored (in particular, in child-first mode, where children are already
// visited by the time the facade itself is visited).
type Visitor func(f *facade.Facade, pathValues []any, pathKeys []any) bool

// Traverse walks root (a facade, or a plain recognized container possibly
// containing facades) invoking visitor on every reachable facade.
func Traverse(root any, visitor Visitor, depthFirst bool) {
	walk(nil, nil, root, visitor, depthFirst)
}

func walk(pathValues []any, pathKeys []any, v any, visitor Visitor, depthFirst bool) {
	if !container.IsRecognized(v) {
		return
	}

	for _, ancestor := range pathValues {
		if container.Identical(ancestor, v) {
			return
		}
	}
	newPathValues := appendAny(pathValues, v)

	if f, ok := v.(*facade.Facade); ok {
		walkFacade(newPathValues, pathKeys, f, visitor, depthFirst)
		return
	}

	// A plain container reached via a patch: descend through it without
	// calling visitor on it (spec.md §4.3 "Traversal through plain
	// intermediates").
	walkPlain(newPathValues, pathKeys, v, visitor, depthFirst)
}

func walkFacade(pathValues []any, pathKeys []any, f *facade.Facade, visitor Visitor, depthFirst bool) {
	descend := true
	if !depthFirst {
		descend = visitor(f, pathValues, pathKeys)
	}

	if descend {
		keys, _ := f.Keys()
		for _, k := range keys {
			target := f.DescendTarget(k)
			if target == nil {
				continue
			}
			walk(pathValues, appendAny(pathKeys, k), target, visitor, depthFirst)
		}
	}

	if depthFirst {
		visitor(f, pathValues, pathKeys)
	}
}

func walkPlain(pathValues []any, pathKeys []any, v any, visitor Visitor, depthFirst bool) {
	switch rec := v.(type) {
	case *container.Record:
		for _, k := range rec.Keys() {
			val, _ := rec.Get(k)
			if !container.IsRecognized(val) {
				continue
			}
			walk(pathValues, appendAny(pathKeys, k), val, visitor, depthFirst)
		}
	case *container.Sequence:
		for i, val := range rec.Elements() {
			if !container.IsRecognized(val) {
				continue
			}
			walk(pathValues, appendAny(pathKeys, i), val, visitor, depthFirst)
		}
	}
}

func appendAny(s []any, v any) []any {
	out := make([]any, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}

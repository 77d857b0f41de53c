// Package snapshot implements the structural-sharing fold of spec.md §4.4:
// producing an immutable tree from a facade (or a plain container holding
// facades), cloning only containers on a mutated path and sharing every
// unchanged sibling subtree by reference.
package snapshot

import (
	"flux/container"
	"flux/facade"
)

// Snapshot folds root's patches onto its own source (no rebase).
func Snapshot(root any) any {
	return fold(root, container.SourceOf(root), false)
}

// Rebase folds root's patches onto base instead of root's own source.
// Rebasing a sequence takes the whole sequence from root's view rather than
// interleaving with base's (spec.md §4.4 "Array rebase exception").
func Rebase(root any, base any) any {
	return fold(root, base, true)
}

func fold(v any, base any, rebasing bool) any {
	if f, ok := v.(*facade.Facade); ok {
		return foldFacade(f, base, rebasing)
	}
	if rec, ok := v.(container.Recognized); ok {
		return foldPlain(rec, rebasing)
	}
	return v
}

func foldFacade(f *facade.Facade, base any, rebasing bool) any {
	switch src := f.Source().(type) {
	case *container.Record:
		return foldRecord(f, src, base, rebasing)
	case *container.Sequence:
		return foldSequence(f, src, base, rebasing)
	}
	return f.Source()
}

// foldPlain reproduces a plain (non-facade) recognized container verbatim,
// recursively folding any facades nested inside it so literal
// object/array assignments surface their changes too (spec.md §4.4 step 5,
// "Plain intermediates"; §9 "Plain objects inside patches").
func foldPlain(v container.Recognized, rebasing bool) any {
	switch c := v.(type) {
	case *container.Record:
		var out *container.Record
		ensure := func() *container.Record {
			if out == nil {
				out = c.Clone()
			}
			return out
		}
		for _, k := range c.Keys() {
			val, _ := c.Get(k)
			newVal, changed := foldNested(val, rebasing)
			if changed {
				ensure().Set(k, newVal)
			}
		}
		if out == nil {
			return c
		}
		return out
	case *container.Sequence:
		var out *container.Sequence
		ensure := func() *container.Sequence {
			if out == nil {
				out = c.Clone()
			}
			return out
		}
		for i, val := range c.Elements() {
			newVal, changed := foldNested(val, rebasing)
			if changed {
				ensure().Set(i, newVal)
			}
		}
		if out == nil {
			return c
		}
		return out
	}
	return v
}

// foldNested folds a value that might be a facade, a nested plain
// container, or a leaf, reporting whether the result differs from val.
func foldNested(val any, rebasing bool) (newVal any, changed bool) {
	if fc, ok := val.(*facade.Facade); ok {
		newVal = foldFacade(fc, fc.Source(), rebasing)
		return newVal, !container.Identical(newVal, val)
	}
	if rec, ok := val.(container.Recognized); ok {
		newVal = foldPlain(rec, rebasing)
		return newVal, !container.Identical(newVal, val)
	}
	return val, false
}

package snapshot

import (
	"flux/container"
	"flux/facade"
)

// foldSequence folds a sequence-kind facade. The array rebase exception
// (spec.md §4.4 step 6) applies only when rebasing: the whole sequence is
// rebuilt from the facade's own view instead of interleaved with base,
// because sequences have positional identity rebase cannot reconcile.
func foldSequence(f *facade.Facade, src *container.Sequence, base any, rebasing bool) any {
	length := src.Len()
	if n, ok := f.PendingLength(); ok {
		length = n
	}

	if rebasing {
		return materializeSequence(f, src, nil, length, rebasing)
	}

	baseSeq, useBase := base.(*container.Sequence)
	workingBase := src
	if useBase {
		workingBase = baseSeq
	}
	return materializeSequence(f, src, workingBase, length, rebasing)
}

// materializeSequence builds the resulting sequence. workingBase == nil
// means "no base to share with" (the whole-replacement path): every slot is
// materialized fresh from src/patches.
func materializeSequence(f *facade.Facade, src *container.Sequence, workingBase *container.Sequence, length int, rebasing bool) any {
	var out *container.Sequence
	ensure := func() *container.Sequence {
		if out == nil {
			if workingBase != nil {
				out = workingBase.Clone()
				out.Resize(length)
			} else {
				out = container.NewSequence(make([]any, length))
			}
		}
		return out
	}

	for i := 0; i < length; i++ {
		var baseVal any
		baseHas := false
		if workingBase != nil && i < workingBase.Len() {
			baseVal, baseHas = workingBase.Get(i)
		}

		if pv, ok := f.PatchValue(i); ok {
			var newVal any
			switch {
			case facade.IsTombstone(pv):
				newVal = nil
			default:
				if fc, ok := pv.(*facade.Facade); ok {
					newVal = foldFacade(fc, fc.Source(), rebasing)
				} else if rec, ok := pv.(container.Recognized); ok {
					newVal = foldPlain(rec, rebasing)
				} else {
					newVal = pv
				}
			}
			if !baseHas || !container.Identical(baseVal, newVal) {
				ensure().Set(i, newVal)
			}
			continue
		}

		if cf, ok := f.ChildAt(i); ok {
			newVal := foldFacade(cf, baseVal, rebasing)
			if !baseHas || !container.Identical(baseVal, newVal) {
				ensure().Set(i, newVal)
			}
			continue
		}

		// Unchanged index: only needs an explicit write if there is no
		// shared base to inherit it from.
		if workingBase == nil || i >= workingBase.Len() {
			srcVal, _ := src.Get(i)
			ensure().Set(i, srcVal)
		}
	}

	if out == nil {
		if workingBase != nil && workingBase.Len() == length {
			return workingBase
		}
		elems := append([]any(nil), src.Elements()...)
		if length < len(elems) {
			elems = elems[:length]
		}
		for len(elems) < length {
			elems = append(elems, nil)
		}
		return container.NewSequence(elems)
	}
	return out
}

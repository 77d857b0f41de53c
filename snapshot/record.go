package snapshot

import (
	"flux/container"
	"flux/facade"
)

// foldRecord folds a record-kind facade's patches onto base (or its own
// source if base is absent or not itself a record — spec.md §4.4 step 2:
// "if any step of the walk lands on a non-recognized value, abort this
// subtree ... the snapshot at this point falls back to materializing from
// F's own source").
func foldRecord(f *facade.Facade, src *container.Record, base any, rebasing bool) any {
	baseRec, useBase := base.(*container.Record)
	workingBase := src
	if useBase {
		workingBase = baseRec
	}

	var out *container.Record
	ensure := func() *container.Record {
		if out == nil {
			out = workingBase.Clone()
		}
		return out
	}

	// 1. Direct patches, oldest first — tombstones, facade assignments
	//    (write the source, per step 4), plain-container assignments
	//    (recurse for nested facades), and plain values.
	for _, k := range f.PatchedKeys() {
		key, ok := k.(string)
		if !ok {
			continue
		}
		pv, _ := f.PatchValue(k)
		if facade.IsTombstone(pv) {
			if _, has := workingBase.Get(key); has {
				ensure().Delete(key)
			}
			continue
		}

		var newVal any
		if fc, ok := pv.(*facade.Facade); ok {
			newVal = foldFacade(fc, fc.Source(), rebasing)
		} else if rec, ok := pv.(container.Recognized); ok {
			newVal = foldPlain(rec, rebasing)
		} else {
			newVal = pv
		}

		if cur, has := workingBase.Get(key); !has || !container.Identical(cur, newVal) {
			ensure().Set(key, newVal)
		}
	}

	// 2. Lazily-created children not shadowed by a direct patch: recurse so
	//    changes made only through a nested facade still bubble up and
	//    clone this path.
	for _, k := range f.ChildKeys() {
		key, ok := k.(string)
		if !ok {
			continue
		}
		if f.HasPatch(k) {
			continue
		}
		cf, _ := f.ChildAt(k)
		baseVal, _ := workingBase.Get(key)
		newVal := foldFacade(cf, baseVal, rebasing)
		if !container.Identical(newVal, baseVal) {
			ensure().Set(key, newVal)
		}
	}

	if out == nil {
		return workingBase
	}
	return out
}

// Package facade implements the recording mutator: a lightweight handle
// around a container.Sequence or container.Record that records writes in a
// pending-patch table instead of mutating the source, and lazily
// materializes child facades for recognized properties. This is the core of
// spec.md §4.2.
package facade

import (
	"flux/container"
	"flux/fluxerr"
)

// tombstone is the distinguished, process-global sentinel marking a deleted
// source key. Its identity (pointer equality), not any field, is what
// patches compare against. Design note: modeled as a tagged-variant
// constructor rather than a magic value, per spec.md §9.
type tombstone struct{}

// Tombstone is the sentinel patch value meaning "this key was deleted".
var Tombstone any = &tombstone{}

func isTombstone(v any) bool {
	_, ok := v.(*tombstone)
	return ok
}

// Options configures a facade graph. ReferenceCheck, when enabled, makes a
// write that restores a slot to its original value a no-op instead of
// recording a patch (spec.md §4.4 "Reference-check interaction").
type Options struct {
	ReferenceCheck bool
}

// Facade is the recording wrapper described by spec.md §3 "Entities". Its
// four bookkeeping fields (source, patches, children, origin), its options
// and its revoked flag are its entire state; no locks are needed
// within a single facade because the engine is single-threaded cooperative
// (spec.md §5).
type Facade struct {
	container.Marker
	source   container.Recognized
	patches  *patchTable
	children map[any]*Facade
	origin   *Facade
	options  Options
	revoked  bool
}

// Source returns the facade's backing container (container.Facade contract).
func (f *Facade) Source() any { return f.source }

// Options returns the facade's options, inherited by every child facade
// created beneath it.
func (f *Facade) Options() Options { return f.options }

// Origin returns the root facade of the graph this facade was derived from.
func (f *Facade) Origin() *Facade { return f.origin }

// Wrap creates a root facade around a recognized container. Wrapping a
// facade is idempotent: it returns the facade itself (spec.md §6).
func Wrap(value any, options Options) (*Facade, error) {
	if f, ok := value.(*Facade); ok {
		return f, nil
	}
	rec, ok := value.(container.Recognized)
	if !ok {
		return nil, fluxerr.Unsupported("wrap: value is not a recognized container")
	}
	f := &Facade{source: rec, options: options}
	f.origin = f
	return f, nil
}

// newChild creates a lazily-materialized child facade sharing the parent's
// origin and options (spec.md §3 "Child facade entry").
func (f *Facade) newChild(source container.Recognized) *Facade {
	return &Facade{source: source, origin: f.origin, options: f.options}
}

// Revoke discards this facade's bookkeeping and denies further access.
// Revocation is a correctness aid, not a safety requirement (spec.md §3).
func (f *Facade) Revoke() {
	f.revoked = true
	f.patches = nil
	f.children = nil
}

func (f *Facade) checkLive() error {
	if f.revoked {
		return fluxerr.Invariant("operation on a revoked facade")
	}
	return nil
}

func (f *Facade) ensurePatches() *patchTable {
	if f.patches == nil {
		f.patches = newPatchTable()
	}
	return f.patches
}

func (f *Facade) ensureChildren() map[any]*Facade {
	if f.children == nil {
		f.children = make(map[any]*Facade)
	}
	return f.children
}

// sourceGet reads the raw slot at k from the facade's own source container,
// regardless of kind.
func (f *Facade) sourceGet(k any) (any, bool) {
	switch src := f.source.(type) {
	case *container.Record:
		key, ok := k.(string)
		if !ok {
			return nil, false
		}
		return src.Get(key)
	case *container.Sequence:
		if key, isStr := k.(string); isStr && key == "length" {
			return f.Length(), true
		}
		idx, ok := k.(int)
		if !ok {
			return nil, false
		}
		return src.Get(idx)
	}
	return nil, false
}

func (f *Facade) sourceHas(k any) bool {
	switch src := f.source.(type) {
	case *container.Record:
		key, ok := k.(string)
		return ok && src.Has(key)
	case *container.Sequence:
		if key, ok := k.(string); ok && key == "length" {
			return true
		}
		idx, ok := k.(int)
		if !ok {
			return false
		}
		return idx >= 0 && idx < src.Len()
	}
	return false
}

func (f *Facade) accessorAt(k any) (container.Accessor, bool) {
	v, has := f.sourceGet(k)
	if !has {
		return nil, false
	}
	acc, ok := v.(container.Accessor)
	return acc, ok
}

// Get reads key k (spec.md §4.2 "Read a key k from facade F"). A present-but-
// absent result is (nil, nil); callers that must distinguish a stored nil
// value from absence should call Has separately, exactly as JS distinguishes
// `in` from reading a property.
func (f *Facade) Get(k any) (any, error) {
	if err := f.checkLive(); err != nil {
		return nil, err
	}

	if f.patches != nil {
		if pv, ok := f.patches.get(k); ok {
			if isTombstone(pv) {
				return nil, nil
			}
			return pv, nil
		}
	}

	if acc, ok := f.accessorAt(k); ok {
		return acc.GetFacade(f)
	}

	v, has := f.sourceGet(k)
	if !has {
		return nil, nil
	}

	if f.children != nil {
		if cf, ok := f.children[k]; ok && container.Identical(cf.source, v) {
			return cf, nil
		}
	}

	if container.IsFacade(v) {
		// v is itself a facade the source legitimately holds; hand it back
		// verbatim rather than double-wrapping it in a child facade whose
		// source would be a facade instead of a record/sequence.
		return v, nil
	}

	if container.IsRecognized(v) {
		rec := v.(container.Recognized)
		cf := f.newChild(rec)
		f.ensureChildren()[k] = cf
		return cf, nil
	}

	return v, nil
}

// Has is the key-presence test of spec.md §4.2.
func (f *Facade) Has(k any) (bool, error) {
	if err := f.checkLive(); err != nil {
		return false, err
	}
	if f.patches != nil {
		if pv, ok := f.patches.get(k); ok {
			return !isTombstone(pv), nil
		}
	}
	return f.sourceHas(k), nil
}

// Set writes F[k] = v per spec.md §4.2 "Write F[k] = v".
func (f *Facade) Set(k any, v any) error {
	if err := f.checkLive(); err != nil {
		return err
	}

	// Round-trip: the user wrote back the same child facade they read.
	if f.children != nil {
		if cf, ok := f.children[k]; ok && cf == v {
			if f.patches != nil {
				f.patches.clear(k)
			}
			return nil
		}
	}

	if f.options.ReferenceCheck && !container.IsFacade(v) {
		if cur, has := f.sourceGet(k); has && container.Identical(cur, v) {
			if f.patches != nil {
				f.patches.clear(k)
			}
			return nil
		}
	}

	if acc, ok := f.accessorAt(k); ok {
		return acc.SetFacade(f, v)
	}

	if key, ok := k.(string); ok && key == "length" {
		if _, isSeq := f.source.(*container.Sequence); isSeq {
			n, ok := v.(int)
			if !ok {
				return fluxerr.Unsupported("length must be an int")
			}
			return f.SetLength(n)
		}
	}

	f.ensurePatches().set(k, v)
	return nil
}

// Delete removes F[k] per spec.md §4.2 "Delete F[k]".
func (f *Facade) Delete(k any) error {
	if err := f.checkLive(); err != nil {
		return err
	}

	if key, ok := k.(string); ok && key == "length" {
		if _, isSeq := f.source.(*container.Sequence); isSeq {
			return fluxerr.Unsupported("delete length: non-configurable")
		}
	}

	if !f.sourceHas(k) {
		if f.patches != nil {
			f.patches.clear(k)
		}
		return nil
	}

	f.ensurePatches().set(k, Tombstone)
	return nil
}

// Keys enumerates own keys: source own keys, then patch-added keys not in
// the source, with tombstoned keys removed (spec.md §4.2 "Enumerate own
// keys"). A sequence-kind facade excludes "length".
func (f *Facade) Keys() ([]any, error) {
	if err := f.checkLive(); err != nil {
		return nil, err
	}

	switch src := f.source.(type) {
	case *container.Record:
		out := make([]any, 0, src.Len())
		seen := make(map[any]bool, src.Len())
		for _, k := range src.Keys() {
			if f.patches != nil {
				if pv, ok := f.patches.get(k); ok && isTombstone(pv) {
					continue
				}
			}
			out = append(out, k)
			seen[k] = true
		}
		if f.patches != nil {
			for _, k := range f.patches.order {
				if seen[k] {
					continue
				}
				if pv, ok := f.patches.get(k); ok && !isTombstone(pv) {
					out = append(out, k)
					seen[k] = true
				}
			}
		}
		return out, nil
	case *container.Sequence:
		n := f.Length()
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			if f.patches != nil {
				if pv, ok := f.patches.get(i); ok && isTombstone(pv) {
					continue
				}
			}
			out = append(out, i)
		}
		return out, nil
	}
	return nil, nil
}

// DescendTarget returns the value traverse should descend into for key k,
// following the priority rule of spec.md §4.3 "Reachability": a recognized
// patch value first, else the cached child facade, else nil (no descent).
func (f *Facade) DescendTarget(k any) any {
	if f.patches != nil {
		if pv, ok := f.patches.get(k); ok {
			if isTombstone(pv) || !container.IsRecognized(pv) {
				return nil
			}
			return pv
		}
	}
	if f.children != nil {
		if cf, ok := f.children[k]; ok {
			return cf
		}
	}
	return nil
}

// PatchedKeys returns every key that currently has a patch, in the order
// each was first patched, for the
// snapshot engine's fold step. Not part of the user-facing contract.
func (f *Facade) PatchedKeys() []any {
	if f.patches == nil {
		return nil
	}
	return f.patches.order
}

// PatchValue returns the raw patch value at k (which may be Tombstone) and
// whether a patch exists at all. Not part of the user-facing contract.
func (f *Facade) PatchValue(k any) (any, bool) {
	if f.patches == nil {
		return nil, false
	}
	return f.patches.get(k)
}

// HasPatch reports whether a patch entry exists at k, regardless of value.
func (f *Facade) HasPatch(k any) bool {
	_, ok := f.PatchValue(k)
	return ok
}

// PendingLength returns the facade's pending length override, if any.
func (f *Facade) PendingLength() (int, bool) {
	if f.patches == nil || f.patches.length == nil {
		return 0, false
	}
	return *f.patches.length, true
}

// ChildAt returns the lazily-created child facade at k, if one exists. Not
// part of the user-facing contract.
func (f *Facade) ChildAt(k any) (*Facade, bool) {
	if f.children == nil {
		return nil, false
	}
	cf, ok := f.children[k]
	return cf, ok
}

// ChildKeys returns the keys for which a lazily-created child facade
// exists, in no particular order. Not part of the user-facing contract.
func (f *Facade) ChildKeys() []any {
	if f.children == nil {
		return nil
	}
	out := make([]any, 0, len(f.children))
	for k := range f.children {
		out = append(out, k)
	}
	return out
}

// IsTombstone reports whether v is the deletion sentinel.
func IsTombstone(v any) bool { return isTombstone(v) }

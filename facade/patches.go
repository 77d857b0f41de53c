package facade

// patchTable is the facade's pending-patch bookkeeping (spec.md §3
// "Patch value"). Keys are `string` for a record-kind facade and `int` for
// a sequence-kind one; the table itself is kind-agnostic.
type patchTable struct {
	m      map[any]any
	order  []any // keys currently patched, in first-patched order
	length *int  // pending length override; sequence-kind facades only
}

func newPatchTable() *patchTable {
	return &patchTable{m: make(map[any]any)}
}

func (p *patchTable) get(k any) (any, bool) {
	v, ok := p.m[k]
	return v, ok
}

func (p *patchTable) set(k any, v any) {
	if _, exists := p.m[k]; !exists {
		p.order = append(p.order, k)
	}
	p.m[k] = v
}

func (p *patchTable) clear(k any) {
	if _, exists := p.m[k]; !exists {
		return
	}
	delete(p.m, k)
	for i, kk := range p.order {
		if kk == k {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// purgeFrom removes every integer-keyed patch at an index >= n. Called when
// a sequence-kind facade's length shrinks (spec.md §4.2 "Sequence-kind
// specifics"): this is what makes push(x); pop() produce an empty patch set.
func (p *patchTable) purgeFrom(n int) {
	for k := range p.m {
		if idx, ok := k.(int); ok && idx >= n {
			p.clear(k)
		}
	}
}

// empty reports whether the table has no entries and no pending length
// override; a nil table is empty. Reference-check no-op writes clear their
// entries, so a table whose writes were all such no-ops (and that has no
// length override) is empty too.
func (p *patchTable) empty() bool {
	return p == nil || (len(p.m) == 0 && p.length == nil)
}

package container

// Sequence is the engine's ordered-sequence container: a dense,
// integer-keyed list with a distinguished length. Its copy-on-write
// operations are grounded on types.sliceList/ListValue's Set/Append/Slice
// shapes, generalized from MOO values to arbitrary `any` elements.
type Sequence struct {
	elems []any
}

func (*Sequence) recognizedContainer() {}

// NewSequence wraps elems as a Sequence. The caller's slice is taken by
// reference; callers that mutate it afterwards break the engine's
// read-only-source invariant, same as source mutation of any kind.
func NewSequence(elems []any) *Sequence {
	if elems == nil {
		elems = []any{}
	}
	return &Sequence{elems: elems}
}

// Len returns the sequence's length.
func (s *Sequence) Len() int { return len(s.elems) }

// Get returns the element at 0-based index i and whether i is in range.
func (s *Sequence) Get(i int) (any, bool) {
	if i < 0 || i >= len(s.elems) {
		return nil, false
	}
	return s.elems[i], true
}

// Elements returns the backing slice for iteration. Callers must not mutate
// it; treat it as read-only, matching Sequence's immutable-source contract.
func (s *Sequence) Elements() []any { return s.elems }

// Clone returns a shallow copy whose backing array is independent of s, so
// callers can mutate the clone (via Set/Resize) without touching s.
func (s *Sequence) Clone() *Sequence {
	cp := make([]any, len(s.elems))
	copy(cp, s.elems)
	return &Sequence{elems: cp}
}

// Set writes v at index i, growing the backing slice if necessary. Intended
// for clones built by the snapshot engine, never for a Sequence still in
// use as someone's source.
func (s *Sequence) Set(i int, v any) {
	if i >= len(s.elems) {
		grown := make([]any, i+1)
		copy(grown, s.elems)
		s.elems = grown
	}
	s.elems[i] = v
}

// Resize truncates or grows the backing slice to exactly n elements,
// zero-filling (nil) any newly created slots.
func (s *Sequence) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n == len(s.elems) {
		return
	}
	if n < len(s.elems) {
		s.elems = s.elems[:n]
		return
	}
	grown := make([]any, n)
	copy(grown, s.elems)
	s.elems = grown
}

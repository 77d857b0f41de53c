package container

// Record is the engine's plain-record container: an unordered key->value
// mapping (by semantics) that nonetheless preserves insertion order for
// enumeration, the way a plain JS object does. Grounded on types.goMap's
// copy-on-write Set/Delete shape, generalized to string keys holding `any`
// and made order-preserving since spec.md §4.2 "Enumerate own keys"
// requires stable insertion order.
type Record struct {
	keys []string
	vals map[string]any
}

func (*Record) recognizedContainer() {}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]any)}
}

// NewRecordFrom builds a Record from keys in the given order, pairing each
// with values[i].
func NewRecordFrom(keys []string, values []any) *Record {
	r := &Record{
		keys: append([]string(nil), keys...),
		vals: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		r.vals[k] = values[i]
	}
	return r
}

// Len returns the number of keys.
func (r *Record) Len() int { return len(r.keys) }

// Get returns the value at k and whether k is present.
func (r *Record) Get(k string) (any, bool) {
	v, ok := r.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (r *Record) Has(k string) bool {
	_, ok := r.vals[k]
	return ok
}

// Keys returns the record's own keys in insertion order. Callers must not
// mutate the returned slice.
func (r *Record) Keys() []string { return r.keys }

// Clone returns a shallow copy independent of r: mutating the clone via
// Set/Delete never affects r.
func (r *Record) Clone() *Record {
	cp := &Record{
		keys: append([]string(nil), r.keys...),
		vals: make(map[string]any, len(r.vals)),
	}
	for k, v := range r.vals {
		cp.vals[k] = v
	}
	return cp
}

// Set writes k=v, appending k to the key order if it is new. Intended for
// clones built by the snapshot engine.
func (r *Record) Set(k string, v any) {
	if _, exists := r.vals[k]; !exists {
		r.keys = append(r.keys, k)
	}
	r.vals[k] = v
}

// Delete removes k, preserving the relative order of the remaining keys.
func (r *Record) Delete(k string) {
	if _, exists := r.vals[k]; !exists {
		return
	}
	delete(r.vals, k)
	for i, kk := range r.keys {
		if kk == k {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

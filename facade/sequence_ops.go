package facade

import (
	"flux/container"
	"flux/fluxerr"
)

// Length returns the facade's effective length: the pending length patch if
// one exists, else the source sequence's length. Zero for a non-sequence
// facade.
func (f *Facade) Length() int {
	src, ok := f.source.(*container.Sequence)
	if !ok {
		return 0
	}
	if f.patches != nil && f.patches.length != nil {
		return *f.patches.length
	}
	return src.Len()
}

// SetLength writes a new length, purging any patches at indices >= n
// (spec.md §4.2 "Sequence-kind specifics").
func (f *Facade) SetLength(n int) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	if _, ok := f.source.(*container.Sequence); !ok {
		return fluxerr.Unsupported("SetLength: facade is not sequence-kind")
	}
	if n < 0 {
		return fluxerr.Unsupported("length cannot be negative")
	}
	p := f.ensurePatches()
	p.length = &n
	p.purgeFrom(n)
	return nil
}

// Push appends values, expressed as index assignments followed by a length
// write (spec.md §4.2 reshape design note).
func (f *Facade) Push(values ...any) error {
	n := f.Length()
	for i, v := range values {
		if err := f.Set(n+i, v); err != nil {
			return err
		}
	}
	return f.SetLength(n + len(values))
}

// Pop removes and returns the last element, or (nil, nil) if empty.
func (f *Facade) Pop() (any, error) {
	n := f.Length()
	if n == 0 {
		return nil, nil
	}
	v, err := f.Get(n - 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetLength(n - 1); err != nil {
		return nil, err
	}
	return v, nil
}

// Shift removes and returns the first element, shifting the rest down.
func (f *Facade) Shift() (any, error) {
	n := f.Length()
	if n == 0 {
		return nil, nil
	}
	first, err := f.Get(0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n-1; i++ {
		v, err := f.Get(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.Set(i, v); err != nil {
			return nil, err
		}
	}
	if err := f.SetLength(n - 1); err != nil {
		return nil, err
	}
	return first, nil
}

// Unshift prepends values, shifting existing elements up.
func (f *Facade) Unshift(values ...any) error {
	n := f.Length()
	shift := len(values)
	if shift == 0 {
		return nil
	}
	if err := f.SetLength(n + shift); err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		v, err := f.Get(i)
		if err != nil {
			return err
		}
		if err := f.Set(i+shift, v); err != nil {
			return err
		}
	}
	for i, v := range values {
		if err := f.Set(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Splice implements array-splice semantics atop Get/Set/SetLength,
// returning the removed elements.
func (f *Facade) Splice(start, deleteCount int, insert ...any) ([]any, error) {
	n := f.Length()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	for i := 0; i < deleteCount; i++ {
		v, err := f.Get(start + i)
		if err != nil {
			return nil, err
		}
		removed[i] = v
	}

	insertCount := len(insert)
	delta := insertCount - deleteCount
	tail := n - (start + deleteCount)

	if delta > 0 {
		if err := f.SetLength(n + delta); err != nil {
			return nil, err
		}
		for i := tail - 1; i >= 0; i-- {
			v, err := f.Get(start + deleteCount + i)
			if err != nil {
				return nil, err
			}
			if err := f.Set(start+insertCount+i, v); err != nil {
				return nil, err
			}
		}
	} else if delta < 0 {
		for i := 0; i < tail; i++ {
			v, err := f.Get(start + deleteCount + i)
			if err != nil {
				return nil, err
			}
			if err := f.Set(start+insertCount+i, v); err != nil {
				return nil, err
			}
		}
		if err := f.SetLength(n + delta); err != nil {
			return nil, err
		}
	}

	for i, v := range insert {
		if err := f.Set(start+i, v); err != nil {
			return nil, err
		}
	}

	return removed, nil
}

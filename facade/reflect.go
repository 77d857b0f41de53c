package facade

import "flux/fluxerr"

// The operations below have no reflective equivalent in a hand-written
// container type: there is no prototype to change, no extensibility flag to
// flip, no descriptor to define with custom attributes, and no backing
// marker state a caller could read or write directly (Facade's bookkeeping
// fields are unexported, and its embedded container.Marker is an empty
// struct). They are kept as explicit methods, each raising the single
// UNSUPPORTED_OPERATION kind, so the forbidden surface named in spec.md
// §4.2 "Forbidden operations" has a concrete, callable home rather than
// being merely absent.

// SetPrototype always fails: changing a facade's prototype is forbidden.
func (f *Facade) SetPrototype(any) error {
	return fluxerr.Unsupported("set prototype")
}

// PreventExtensions always fails: preventing extension of a facade is
// forbidden.
func (f *Facade) PreventExtensions() error {
	return fluxerr.Unsupported("prevent extensions")
}

// DefineProperty always fails when attrs carries anything beyond a plain
// value (spec.md: "defining a descriptor with custom attributes").
func (f *Facade) DefineProperty(key any, attrs PropertyDescriptor) error {
	if attrs.HasCustomAttributes() {
		return fluxerr.Unsupported("define property with custom attributes")
	}
	return f.Set(key, attrs.Value)
}

// PropertyDescriptor mirrors the subset of a property descriptor the engine
// can reason about: a value plus the configurable, enumerable and writable
// flags. Any flag left false makes DefineProperty forbidden.
type PropertyDescriptor struct {
	Value        any
	Configurable bool
	Enumerable   bool
	Writable     bool
}

// HasCustomAttributes reports whether attrs asks for anything beyond a
// plain, fully-configurable, fully-enumerable, writable slot.
func (d PropertyDescriptor) HasCustomAttributes() bool {
	return !d.Configurable || !d.Enumerable || !d.Writable
}

// ReadBackingMarker always fails: the backing marker is not observable.
func (f *Facade) ReadBackingMarker() (any, error) {
	return nil, fluxerr.Unsupported("read backing marker")
}

// WriteBackingMarker always fails: the backing marker cannot be written.
func (f *Facade) WriteBackingMarker(any) error {
	return fluxerr.Unsupported("write backing marker")
}

package container

import "testing"

type fakeFacade struct {
	src any
}

func (*fakeFacade) recognizedContainer() {}
func (f *fakeFacade) Source() any        { return f.src }

func TestIsRecognized(t *testing.T) {
	rec := NewRecord()
	seq := NewSequence(nil)
	fac := &fakeFacade{src: rec}

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"record", rec, true},
		{"sequence", seq, true},
		{"facade", fac, true},
		{"int", 42, false},
		{"string", "hi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecognized(tt.v); got != tt.want {
				t.Errorf("IsRecognized(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestIsFacadeAndSourceOf(t *testing.T) {
	rec := NewRecord()
	fac := &fakeFacade{src: rec}

	if IsFacade(rec) {
		t.Errorf("a plain record must not be a facade")
	}
	if !IsFacade(fac) {
		t.Errorf("fakeFacade must be a facade")
	}
	if SourceOf(fac) != rec {
		t.Errorf("SourceOf(facade) should return its source")
	}
	if SourceOf(rec) != rec {
		t.Errorf("SourceOf(non-facade) should return v itself")
	}
}

func TestClassify(t *testing.T) {
	rec := NewRecord()
	seq := NewSequence(nil)
	fac := &fakeFacade{src: seq}

	if Classify(rec) != KindRecord {
		t.Errorf("Classify(record) != KindRecord")
	}
	if Classify(seq) != KindSequence {
		t.Errorf("Classify(sequence) != KindSequence")
	}
	if Classify(fac) != KindSequence {
		t.Errorf("Classify(facade over sequence) != KindSequence")
	}
	if Classify(42) != KindOpaque {
		t.Errorf("Classify(opaque) != KindOpaque")
	}
}

func TestIdentical(t *testing.T) {
	r1 := NewRecord()
	r2 := NewRecord()
	s1 := NewSequence(nil)

	if !Identical(r1, r1) {
		t.Errorf("a record must be identical to itself")
	}
	if Identical(r1, r2) {
		t.Errorf("two distinct empty records must not be identical")
	}
	if Identical(r1, s1) {
		t.Errorf("a record and a sequence must never be identical")
	}
	if !Identical(5, 5) {
		t.Errorf("equal ints must be identical")
	}
	if Identical(5, 6) {
		t.Errorf("unequal ints must not be identical")
	}
	if !Identical(nil, nil) {
		t.Errorf("nil must be identical to nil")
	}
	// non-comparable opaque values never panic and never report identical
	// unless they are the same interface value.
	m := map[string]int{"a": 1}
	if Identical(m, map[string]int{"a": 1}) {
		t.Errorf("distinct maps must not be identical")
	}
	if !Identical(m, m) {
		t.Errorf("the same map value must be identical to itself")
	}
}

func TestSequenceCOW(t *testing.T) {
	s := NewSequence([]any{1, 2, 3})
	clone := s.Clone()
	clone.Set(0, "changed")

	if v, _ := s.Get(0); v != 1 {
		t.Errorf("mutating a clone must not affect the original, got %v", v)
	}
	if v, _ := clone.Get(0); v != "changed" {
		t.Errorf("clone.Set should take effect on the clone")
	}
	if s.Len() != 3 || clone.Len() != 3 {
		t.Errorf("clone must preserve length")
	}
}

func TestSequenceResize(t *testing.T) {
	s := NewSequence([]any{1, 2, 3})
	s.Resize(2)
	if s.Len() != 2 {
		t.Fatalf("Resize(2) should shrink to length 2, got %d", s.Len())
	}
	s.Resize(4)
	if s.Len() != 4 {
		t.Fatalf("Resize(4) should grow to length 4, got %d", s.Len())
	}
	if v, _ := s.Get(3); v != nil {
		t.Errorf("grown slots should be nil, got %v", v)
	}
}

func TestRecordOrderPreserved(t *testing.T) {
	r := NewRecord()
	r.Set("foo", 1)
	r.Set("bar", 2)
	r.Set("foo", 3) // update, not a reorder

	want := []string{"foo", "bar"}
	got := r.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
	if v, _ := r.Get("foo"); v != 3 {
		t.Errorf("Set should update the value in place")
	}
}

func TestRecordCloneIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("a", 1)
	clone := r.Clone()
	clone.Set("b", 2)
	clone.Delete("a")

	if !r.Has("a") {
		t.Errorf("deleting from a clone must not affect the original")
	}
	if r.Has("b") {
		t.Errorf("setting on a clone must not affect the original")
	}
}

func TestRecordDeletePreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("c", 3)
	r.Delete("b")

	want := []string{"a", "c"}
	got := r.Keys()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Keys() after delete = %v, want %v", got, want)
	}
}

package snapshot

import (
	"testing"

	"flux/container"
	"flux/facade"
)

func TestSnapshotNoOpReturnsSameIdentity(t *testing.T) {
	base := container.NewRecord()
	base.Set("a", 1)

	f, err := facade.Wrap(base, facade.Options{})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	out := Snapshot(f)
	if !container.Identical(out, base) {
		t.Fatalf("no-op snapshot must return the original container by identity")
	}
}

func TestSnapshotShallowEditSharesSiblings(t *testing.T) {
	untouched := container.NewRecord()
	untouched.Set("x", 1)

	base := container.NewRecord()
	base.Set("keep", untouched)
	base.Set("edit", 1)

	f, _ := facade.Wrap(base, facade.Options{})
	if err := f.Set("edit", 2); err != nil {
		t.Fatalf("Set: %v", err)
	}

	out := Snapshot(f)
	rec, ok := out.(*container.Record)
	if !ok {
		t.Fatalf("expected *container.Record, got %T", out)
	}
	if container.Identical(out, base) {
		t.Fatalf("edited record must not share identity with base")
	}

	keepVal, _ := rec.Get("keep")
	if !container.Identical(keepVal, untouched) {
		t.Fatalf("untouched sibling must be shared by reference")
	}

	editVal, _ := rec.Get("edit")
	if editVal != 2 {
		t.Fatalf("edit = %v, want 2", editVal)
	}
}

func TestSnapshotDeepEditSharesUnrelatedBranch(t *testing.T) {
	leafA := container.NewRecord()
	leafA.Set("v", 1)
	leafB := container.NewRecord()
	leafB.Set("v", 2)

	base := container.NewRecord()
	base.Set("a", leafA)
	base.Set("b", leafB)

	f, _ := facade.Wrap(base, facade.Options{})
	childA, err := f.Get("a")
	if err != nil {
		t.Fatalf("Get(a): %v", err)
	}
	cf := childA.(*facade.Facade)
	if err := cf.Set("v", 99); err != nil {
		t.Fatalf("Set(v): %v", err)
	}

	out := Snapshot(f).(*container.Record)
	bVal, _ := out.Get("b")
	if !container.Identical(bVal, leafB) {
		t.Fatalf("branch b must remain shared when only branch a changed")
	}
	aVal, _ := out.Get("a")
	if container.Identical(aVal, leafA) {
		t.Fatalf("branch a must be cloned since it was mutated")
	}
	aRec := aVal.(*container.Record)
	if v, _ := aRec.Get("v"); v != 99 {
		t.Fatalf("a.v = %v, want 99", v)
	}
}

func TestSnapshotDeleteRemovesKey(t *testing.T) {
	base := container.NewRecord()
	base.Set("a", 1)
	base.Set("b", 2)

	f, _ := facade.Wrap(base, facade.Options{})
	if err := f.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	out := Snapshot(f).(*container.Record)
	if out.Has("a") {
		t.Fatalf("deleted key must be absent from snapshot")
	}
	if v, _ := out.Get("b"); v != 2 {
		t.Fatalf("b = %v, want 2", v)
	}
}

func TestSnapshotSequenceScrambleUnscrambleIdentity(t *testing.T) {
	base := container.NewSequence([]any{1, 2, 3})
	f, _ := facade.Wrap(base, facade.Options{ReferenceCheck: true})

	a, _ := f.Get(0)
	c, _ := f.Get(2)
	if err := f.Set(0, c); err != nil {
		t.Fatalf("Set(0): %v", err)
	}
	if err := f.Set(2, a); err != nil {
		t.Fatalf("Set(2): %v", err)
	}
	// unscramble back
	if err := f.Set(0, a); err != nil {
		t.Fatalf("Set(0) restore: %v", err)
	}
	if err := f.Set(2, c); err != nil {
		t.Fatalf("Set(2) restore: %v", err)
	}

	out := Snapshot(f)
	if !container.Identical(out, base) {
		t.Fatalf("restoring original values under ReferenceCheck must snapshot back to the original identity")
	}
}

func TestSnapshotSequencePushGrows(t *testing.T) {
	base := container.NewSequence([]any{1, 2})
	f, _ := facade.Wrap(base, facade.Options{})
	if err := f.Push(3, 4); err != nil {
		t.Fatalf("Push: %v", err)
	}

	out := Snapshot(f).(*container.Sequence)
	if out.Len() != 4 {
		t.Fatalf("len = %d, want 4", out.Len())
	}
	for i, want := range []int{1, 2, 3, 4} {
		v, _ := out.Get(i)
		if v != want {
			t.Fatalf("out[%d] = %v, want %d", i, v, want)
		}
	}
}

func TestRebaseSequenceWholeReplacement(t *testing.T) {
	original := container.NewSequence([]any{1, 2, 3})
	f, _ := facade.Wrap(original, facade.Options{})
	if err := f.Set(0, 100); err != nil {
		t.Fatalf("Set: %v", err)
	}

	foreignBase := container.NewSequence([]any{9, 8, 7, 6})
	out := Rebase(f, foreignBase).(*container.Sequence)

	if out.Len() != 3 {
		t.Fatalf("rebased sequence length = %d, want 3 (whole replacement from facade view, not foreign base)", out.Len())
	}
	v0, _ := out.Get(0)
	if v0 != 100 {
		t.Fatalf("out[0] = %v, want 100", v0)
	}
	v1, _ := out.Get(1)
	if v1 != 2 {
		t.Fatalf("out[1] = %v, want 2 (own unpatched value, not foreign base's 8)", v1)
	}
}

func TestRebaseRecordInheritsUnchangedFromForeignBase(t *testing.T) {
	original := container.NewRecord()
	original.Set("a", 1)
	original.Set("b", 2)

	f, _ := facade.Wrap(original, facade.Options{})
	if err := f.Set("a", 10); err != nil {
		t.Fatalf("Set: %v", err)
	}

	foreignBase := container.NewRecord()
	foreignBase.Set("a", 1)
	foreignBase.Set("b", 999)
	foreignBase.Set("c", 3)

	out := Rebase(f, foreignBase).(*container.Record)
	if v, _ := out.Get("a"); v != 10 {
		t.Fatalf("a = %v, want 10 (own patch)", v)
	}
	if v, _ := out.Get("b"); v != 999 {
		t.Fatalf("b = %v, want 999 (inherited from foreign base)", v)
	}
	if v, _ := out.Get("c"); v != 3 {
		t.Fatalf("c = %v, want 3 (foreign base key never seen by facade)", v)
	}
}

func TestSnapshotPlainIntermediateWithNestedFacade(t *testing.T) {
	inner := container.NewRecord()
	inner.Set("v", 1)
	root := container.NewRecord()
	root.Set("foo", inner)

	f, _ := facade.Wrap(root, facade.Options{})
	innerFacadeAny, _ := f.Get("foo")
	innerFacade := innerFacadeAny.(*facade.Facade)
	if err := innerFacade.Set("v", 2); err != nil {
		t.Fatalf("Set(v): %v", err)
	}

	literal := container.NewRecord()
	literal.Set("wrapped", innerFacade)
	if err := f.Set("foo", literal); err != nil {
		t.Fatalf("Set(foo, literal): %v", err)
	}

	out := Snapshot(f).(*container.Record)
	fooVal, _ := out.Get("foo")
	fooRec, ok := fooVal.(*container.Record)
	if !ok {
		t.Fatalf("expected plain record at foo, got %T", fooVal)
	}
	wrapped, _ := fooRec.Get("wrapped")
	wrappedRec, ok := wrapped.(*container.Record)
	if !ok {
		t.Fatalf("expected folded record at foo.wrapped, got %T", wrapped)
	}
	if v, _ := wrappedRec.Get("v"); v != 2 {
		t.Fatalf("foo.wrapped.v = %v, want 2", v)
	}
}

func TestFingerprintStableAcrossEquivalentStructures(t *testing.T) {
	a := container.NewRecord()
	a.Set("x", 1)
	a.Set("y", container.NewSequence([]any{1, 2, 3}))

	b := container.NewRecord()
	b.Set("y", container.NewSequence([]any{1, 2, 3}))
	b.Set("x", 1)

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("fingerprints must match for structurally identical records regardless of insertion order")
	}
}

func TestFingerprintDiffersOnContentChange(t *testing.T) {
	a := container.NewRecord()
	a.Set("x", 1)
	b := container.NewRecord()
	b.Set("x", 2)

	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("fingerprints must differ for different content")
	}
}

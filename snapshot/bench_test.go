package snapshot

import (
	"fmt"
	"testing"

	"flux/container"
	"flux/facade"
)

func buildWideRecord(n int) *container.Record {
	rec := container.NewRecord()
	for i := 0; i < n; i++ {
		leaf := container.NewRecord()
		leaf.Set("v", i)
		rec.Set(fmt.Sprintf("k%d", i), leaf)
	}
	return rec
}

func BenchmarkSnapshotNoOp(b *testing.B) {
	base := buildWideRecord(200)
	f, _ := facade.Wrap(base, facade.Options{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Snapshot(f)
	}
}

func BenchmarkSnapshotSingleEditSharesSiblings(b *testing.B) {
	base := buildWideRecord(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, _ := facade.Wrap(base, facade.Options{})
		if err := f.Set("k100", i); err != nil {
			b.Fatal(err)
		}
		Snapshot(f)
	}
}

package conformance

import (
	"fmt"
	"reflect"
	"sort"

	"flux/container"
	"flux/facade"
	"flux/fluxerr"
	"flux/snapshot"
)

// TestResult is the outcome of running a single test case.
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance fixtures against the facade/snapshot engine.
type Runner struct{}

// NewRunner returns a fixture runner. The engine holds no persistent state
// between test cases; each one builds and wraps its own tree.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a single test case.
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}

	tc := test.Test
	root := buildValue(tc.Initial)
	rec, ok := root.(container.Recognized)
	if !ok {
		return TestResult{Test: test, Error: fmt.Errorf("initial value is not a recognized container: %T", root)}
	}

	f, err := facade.Wrap(rec, facade.Options{ReferenceCheck: tc.ReferenceCheck})
	if err != nil {
		return TestResult{Test: test, Error: fmt.Errorf("wrap: %w", err)}
	}

	opErr := applyOps(f, tc.Ops)
	passed, checkErr := r.checkExpectation(tc, rec, f, opErr)
	return TestResult{Test: test, Passed: passed, Error: checkErr}
}

// RunAll executes every loaded test.
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats tallies a batch of results.
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats derives SummaryStats from a batch of TestResult.
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Skipped:
			stats.Skipped++
		case res.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

// FormatStats renders a human-readable summary line.
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

func (r *Runner) checkExpectation(tc TestCase, root container.Recognized, f *facade.Facade, opErr error) (bool, error) {
	if tc.Expect.Error != "" {
		if opErr == nil {
			return false, fmt.Errorf("expected error %q, got none", tc.Expect.Error)
		}
		fe, ok := opErr.(*fluxerr.Error)
		if !ok {
			return false, fmt.Errorf("expected fluxerr %q, got %T: %v", tc.Expect.Error, opErr, opErr)
		}
		if fe.Kind.String() != tc.Expect.Error {
			return false, fmt.Errorf("expected error %q, got %q", tc.Expect.Error, fe.Kind.String())
		}
		return true, nil
	}

	if opErr != nil {
		return false, fmt.Errorf("unexpected error: %w", opErr)
	}

	var result any
	if tc.RebaseOnto != nil {
		base := buildValue(tc.RebaseOnto)
		result = snapshot.Rebase(f, base)
	} else {
		result = snapshot.Snapshot(f)
	}

	if tc.Expect.IdenticalToBase {
		if !container.Identical(result, root) {
			return false, fmt.Errorf("expected snapshot to be identical to the initial value, but a clone was produced")
		}
		return true, nil
	}

	got := toPlain(result)
	if !reflect.DeepEqual(got, tc.Expect.Value) {
		return false, fmt.Errorf("expected %#v, got %#v", tc.Expect.Value, got)
	}
	return true, nil
}

// applyOps runs every operation against f in order, navigating nested
// facades by path. It stops and returns the first error encountered, as a
// mutator in the real engine would leave subsequent ops unexecuted.
func applyOps(f *facade.Facade, ops []Operation) error {
	for _, op := range ops {
		if err := applyOp(f, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOp(root *facade.Facade, op Operation) error {
	switch op.Kind {
	case "set", "delete":
		if len(op.Path) == 0 {
			return fluxerr.Unsupported("set/delete require a non-empty path")
		}
		parent, err := navigate(root, op.Path[:len(op.Path)-1])
		if err != nil {
			return err
		}
		key := op.Path[len(op.Path)-1]
		if op.Kind == "set" {
			return parent.Set(key, buildValue(op.Value))
		}
		return parent.Delete(key)

	case "push", "pop", "shift", "unshift", "splice", "set_length":
		target, err := navigate(root, op.Path)
		if err != nil {
			return err
		}
		switch op.Kind {
		case "push":
			return target.Push(buildValues(op.Values)...)
		case "pop":
			_, err := target.Pop()
			return err
		case "shift":
			_, err := target.Shift()
			return err
		case "unshift":
			return target.Unshift(buildValues(op.Values)...)
		case "splice":
			_, err := target.Splice(op.Start, op.Count, buildValues(op.Values)...)
			return err
		case "set_length":
			return target.SetLength(op.Length)
		}
	}
	return fluxerr.Unsupported("unknown op: " + op.Kind)
}

// navigate walks path from root, requiring every intermediate (and final)
// value to be a facade, the way a real mutator chains property reads.
func navigate(root *facade.Facade, path []interface{}) (*facade.Facade, error) {
	cur := root
	for _, key := range path {
		v, err := cur.Get(key)
		if err != nil {
			return nil, err
		}
		next, ok := v.(*facade.Facade)
		if !ok {
			return nil, fluxerr.Unsupported(fmt.Sprintf("path element %v does not resolve to a container", key))
		}
		cur = next
	}
	return cur, nil
}

func buildValues(vs []interface{}) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = buildValue(v)
	}
	return out
}

// buildValue turns a YAML-decoded value into the engine's container tree:
// mappings become *container.Record (keys sorted for determinism, since
// plain map[string]interface{} has none), sequences become
// *container.Sequence, everything else is a leaf.
func buildValue(v interface{}) any {
	switch x := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rec := container.NewRecord()
		for _, k := range keys {
			rec.Set(k, buildValue(x[k]))
		}
		return rec
	case []interface{}:
		elems := make([]any, len(x))
		for i, e := range x {
			elems[i] = buildValue(e)
		}
		return container.NewSequence(elems)
	default:
		return x
	}
}

// toPlain is buildValue's inverse, for comparing a folded snapshot against a
// fixture's expected plain YAML value.
func toPlain(v any) interface{} {
	switch x := v.(type) {
	case *container.Record:
		out := make(map[string]interface{}, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = toPlain(val)
		}
		return out
	case *container.Sequence:
		out := make([]interface{}, x.Len())
		for i, e := range x.Elements() {
			out[i] = toPlain(e)
		}
		return out
	default:
		return x
	}
}

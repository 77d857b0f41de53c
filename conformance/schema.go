package conformance

// TestSuite represents a complete YAML fixture file.
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase runs a sequence of facade operations against an initial value and
// checks the resulting snapshot.
type TestCase struct {
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description,omitempty"`
	Skip           interface{}   `yaml:"skip,omitempty"`
	ReferenceCheck bool          `yaml:"reference_check,omitempty"`
	Initial        interface{}   `yaml:"initial"`
	RebaseOnto     interface{}   `yaml:"rebase_onto,omitempty"`
	Ops            []Operation   `yaml:"ops,omitempty"`
	Expect         Expectation   `yaml:"expect"`
}

// Operation is a single facade mutation, addressed by a key path from the
// root value. Path elements are either YAML strings (record keys) or YAML
// integers (sequence indices).
type Operation struct {
	Kind   string        `yaml:"op"` // set | delete | push | pop | shift | unshift | splice | set_length
	Path   []interface{} `yaml:"path,omitempty"`
	Value  interface{}   `yaml:"value,omitempty"`
	Values []interface{} `yaml:"values,omitempty"`
	Start  int           `yaml:"start,omitempty"`
	Count  int           `yaml:"count,omitempty"`
	Length int           `yaml:"length,omitempty"`
}

// Expectation is what the test asserts about the result.
type Expectation struct {
	Value           interface{} `yaml:"value,omitempty"`
	Error           string      `yaml:"error,omitempty"`
	IdenticalToBase bool        `yaml:"identical_to_base,omitempty"`
}

// IsSkipped returns true if this test should be skipped, and why.
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}

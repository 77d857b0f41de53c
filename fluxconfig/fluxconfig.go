// Package fluxconfig loads facade/store options from a YAML file, the way
// a deployment would configure reference-check behavior without a
// recompile. Grounded on gopkg.in/yaml.v3 usage in conformance/loader.go.
// The file path itself comes from the caller (cmd/fluxdemo's -config flag);
// no option is overridden by flags.
package fluxconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"flux/facade"
)

// FileOptions is the on-disk shape of a flux config file.
type FileOptions struct {
	ReferenceCheck bool   `yaml:"reference_check"`
	Log            string `yaml:"log"` // "debug" | "info" | "warn" | "error"
}

// LoadOptions reads and parses a YAML config file into FileOptions. A
// missing file is not an error; it yields the zero value, matching
// spec.md's stance that options default to everything disabled.
func LoadOptions(path string) (FileOptions, error) {
	var out FileOptions
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("fluxconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("fluxconfig: parse %s: %w", path, err)
	}
	return out, nil
}

// FacadeOptions converts the loaded file options into facade.Options.
func (f FileOptions) FacadeOptions() facade.Options {
	return facade.Options{ReferenceCheck: f.ReferenceCheck}
}

package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestPath is where boundary-scenario fixtures live, relative to either the
// conformance package directory or the module root (tests may run from
// either depending on how `go test` is invoked).
const TestPath = "testdata/conformance"

// LoadedTest is a single test case paired with the file it came from.
type LoadedTest struct {
	File  string
	Suite TestSuite
	Test  TestCase
}

// LoadAllTests walks the fixture directory and loads every test case from
// every .yaml file.
func LoadAllTests() ([]LoadedTest, error) {
	testDir := ""
	candidates := []string{
		TestPath,
		filepath.Join("..", TestPath),
	}
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			testDir = abs
			break
		}
	}
	if testDir == "" {
		return nil, fmt.Errorf("could not find conformance fixture directory (tried %v)", candidates)
	}

	var loaded []LoadedTest
	err := filepath.Walk(testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		tests, err := loadTestFile(path)
		if err != nil {
			relPath, _ := filepath.Rel(testDir, path)
			return fmt.Errorf("%s: %w", relPath, err)
		}

		relPath, _ := filepath.Rel(testDir, path)
		for _, test := range tests {
			test.File = relPath
			loaded = append(loaded, test)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadTestFile(path string) ([]LoadedTest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, err
	}

	tests := make([]LoadedTest, 0, len(suite.Tests))
	for _, test := range suite.Tests {
		tests = append(tests, LoadedTest{Suite: suite, Test: test})
	}
	return tests, nil
}

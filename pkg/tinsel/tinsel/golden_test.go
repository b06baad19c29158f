package tinsel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type goldenSuite struct {
	Tests []goldenCase `yaml:"tests"`
}

type goldenCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Input  string `yaml:"input"`
	Want   string `yaml:"want"`
	Error  string `yaml:"error"`
}

func TestGoldenScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden fixtures found")
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var suite goldenSuite
		if err := yaml.Unmarshal(data, &suite); err != nil {
			t.Fatalf("%s: %v", path, err)
		}

		for _, tc := range suite.Tests {
			t.Run(tc.Name, func(t *testing.T) {
				opts := Options{Input: tc.Input, HasInput: tc.Input != ""}
				result, err := Run(tc.Source, opts)

				if tc.Error != "" {
					if err == nil {
						t.Fatalf("expected error containing %q, got result %s", tc.Error, result.Inspect())
					}
					if !strings.Contains(err.Error(), tc.Error) {
						t.Fatalf("expected error containing %q, got %q", tc.Error, err.Error())
					}
					return
				}

				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got := result.Inspect(); got != tc.Want {
					t.Errorf("expected %s, got %s", tc.Want, got)
				}
			})
		}
	}
}

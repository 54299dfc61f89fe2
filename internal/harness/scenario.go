package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a sequence of GetSites requests over a fixture, with
// expectations per step and assertions across steps.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture is the store fixture to seed, relative to the scenario file.
	Fixture string `yaml:"fixture"`

	// RequestID is the correlation id of every request. Defaults to
	// "scenario-request".
	RequestID string `yaml:"request_id,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step executes one request as one user.
type Step struct {
	Name    string         `yaml:"name"`
	User    int            `yaml:"user"`
	Request map[string]any `yaml:"request"`
	Expect  *Expect        `yaml:"expect,omitempty"`
}

// Expect is the expected outcome of a step. Nil fields are not checked.
type Expect struct {
	SiteIDs []int  `yaml:"site_ids,omitempty"`
	Total   *int   `yaml:"total,omitempty"`
	Offset  *int   `yaml:"offset,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Assertion validates results across steps.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Step names the step checked by contains, excludes and shared_partners.
	Step string `yaml:"step,omitempty"`

	// Site is the site id checked by contains and excludes.
	Site int `yaml:"site,omitempty"`

	// Steps lists the steps compared by same_total.
	Steps []string `yaml:"steps,omitempty"`
}

// Assertion type constants.
const (
	AssertContains       = "contains"
	AssertExcludes       = "excludes"
	AssertSameTotal      = "same_total"
	AssertSharedPartners = "shared_partners"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected and the fixture path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if _, err := os.Stat(s.Fixture); err != nil {
		return fmt.Errorf("fixture not found: %s", s.Fixture)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if names[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		names[step.Name] = true
		if step.User <= 0 {
			return fmt.Errorf("steps[%d]: user is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, names); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion, steps map[string]bool) error {
	switch a.Type {
	case AssertContains, AssertExcludes:
		if a.Site <= 0 {
			return fmt.Errorf("assertions[%d]: site is required for %s", index, a.Type)
		}
		fallthrough
	case AssertSharedPartners:
		if !steps[a.Step] {
			return fmt.Errorf("assertions[%d]: unknown step %q", index, a.Step)
		}
	case AssertSameTotal:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: same_total needs at least two steps", index)
		}
		for _, name := range a.Steps {
			if !steps[name] {
				return fmt.Errorf("assertions[%d]: unknown step %q", index, name)
			}
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Content file names expected under the content directory.
const (
	diagnosisFile = "diagnosis_questions.yaml"
	stepsFile     = "step_messages.yaml"
	feedsFile     = "feed_sources.yaml"
)

// Store holds all loaded content configuration for the lifetime of the
// process. Contents are read once at startup and treated as immutable.
type Store struct {
	Diagnosis *DiagnosisConfig
	Steps     *StepMessages
	Feeds     *FeedSources
}

// Load reads and validates all content configs from dir.
// Any missing or malformed file is a configuration error and fatal.
func Load(dir string) (*Store, error) {
	var diag DiagnosisConfig
	if err := loadStrict(filepath.Join(dir, diagnosisFile), &diag); err != nil {
		return nil, err
	}
	if err := validateDiagnosis(&diag); err != nil {
		return nil, fmt.Errorf("%s: %w", diagnosisFile, err)
	}

	var steps StepMessages
	if err := loadStrict(filepath.Join(dir, stepsFile), &steps); err != nil {
		return nil, err
	}
	if len(steps.Messages) == 0 {
		return nil, fmt.Errorf("%s: no step messages defined", stepsFile)
	}

	var feeds FeedSources
	if err := loadStrict(filepath.Join(dir, feedsFile), &feeds); err != nil {
		return nil, err
	}
	for i, s := range feeds.Sources {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("%s: source %d missing name or url", feedsFile, i)
		}
	}

	return &Store{Diagnosis: &diag, Steps: &steps, Feeds: &feeds}, nil
}

// loadStrict parses a YAML file rejecting unknown keys to catch typos.
func loadStrict(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func validateDiagnosis(c *DiagnosisConfig) error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("no questions defined")
	}
	for _, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("question missing required field: id")
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s has no options", q.ID)
		}
	}
	// All four archetypes must be resolvable for classification output.
	for _, id := range []string{"conservative", "balanced", "aggressive", "learner"} {
		if c.Type(id) == nil {
			return fmt.Errorf("missing archetype definition: %s", id)
		}
	}
	if c.Thresholds.LearnerMaxKnowledge == 0 && c.Thresholds.ConservativeMin == 0 && c.Thresholds.AggressiveMin == 0 {
		return fmt.Errorf("thresholds are required")
	}
	return nil
}

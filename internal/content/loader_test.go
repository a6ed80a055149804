package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDiagnosisYAML = `version: "1"
thresholds:
  learner_max_knowledge: 40
  conservative_min_safety: 70
  aggressive_min_growth: 70
questions:
  - id: q1
    order: 1
    text: "How do you feel about risk?"
    options:
      - id: q1_a
        text: "Avoid it"
        weights: {safety: 8, growth: 1, knowledge: 2, action: 3}
      - id: q1_b
        text: "Embrace it"
        weights: {safety: 1, growth: 9, knowledge: 4, action: 7}
types:
  - id: conservative
    name: "Conservative"
    description: "Safety first."
    tone: "a cautious saver"
    advice: ["keep an emergency fund"]
  - id: balanced
    name: "Balanced"
    description: "Middle of the road."
    tone: "a balanced investor"
    advice: []
  - id: aggressive
    name: "Aggressive"
    description: "Growth first."
    tone: "a growth-focused investor"
    advice: []
  - id: learner
    name: "Learner"
    description: "Still learning."
    tone: "someone just getting started"
    advice: []
`

const validStepsYAML = `version: "1"
messages:
  balanced:
    - day: 1
      subject: "Day 1"
      content: "Good morning! Welcome."
`

const validFeedsYAML = `version: "1"
sources:
  - name: markets-feed
    url: https://example.com/a.xml
    category: markets
    priority: 1
`

func writeContentDir(t *testing.T, diagnosis, steps, feeds string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		diagnosisFile: diagnosis,
		stepsFile:     steps,
		feedsFile:     feeds,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeContentDir(t, validDiagnosisYAML, validStepsYAML, validFeedsYAML)

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := len(store.Diagnosis.Questions); got != 1 {
		t.Errorf("questions = %d, want 1", got)
	}
	q := store.Diagnosis.Question("q1")
	if q == nil {
		t.Fatal("question q1 not found")
	}
	opt := q.Option("q1_a")
	if opt == nil || opt.Weights.Safety != 8 {
		t.Errorf("option q1_a weights = %+v", opt)
	}
	if info := store.Diagnosis.Type("conservative"); info == nil || info.Tone != "a cautious saver" {
		t.Errorf("conservative archetype = %+v", info)
	}
	if msg := store.Steps.ForDay("balanced", 1); msg == nil || msg.Subject != "Day 1" {
		t.Errorf("balanced day 1 = %+v", msg)
	}
	if store.Steps.ForDay("balanced", 2) != nil {
		t.Error("nonexistent day returned a message")
	}
	if got := len(store.Feeds.Sources); got != 1 {
		t.Errorf("sources = %d, want 1", got)
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	bad := validFeedsYAML + "extra_field: true\n"
	dir := writeContentDir(t, validDiagnosisYAML, validStepsYAML, bad)

	if _, err := Load(dir); err == nil {
		t.Error("Load accepted config with unknown field")
	}
}

func TestLoad_MissingArchetype(t *testing.T) {
	// Drop the learner archetype from the valid config.
	trimmed := validDiagnosisYAML[:strings.Index(validDiagnosisYAML, "  - id: learner")]
	dir := writeContentDir(t, trimmed, validStepsYAML, validFeedsYAML)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load accepted config missing an archetype")
	}
	if !strings.Contains(err.Error(), "learner") {
		t.Errorf("error %q does not name the missing archetype", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Error("Load succeeded with no content files")
	}
}

func TestLoad_EmptyStepMessages(t *testing.T) {
	dir := writeContentDir(t, validDiagnosisYAML, "version: \"1\"\nmessages: {}\n", validFeedsYAML)
	if _, err := Load(dir); err == nil {
		t.Error("Load accepted empty step message config")
	}
}

func TestLoad_SourceMissingURL(t *testing.T) {
	bad := "version: \"1\"\nsources:\n  - name: broken-feed\n    category: markets\n    priority: 1\n"
	dir := writeContentDir(t, validDiagnosisYAML, validStepsYAML, bad)
	if _, err := Load(dir); err == nil {
		t.Error("Load accepted source without url")
	}
}

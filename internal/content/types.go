// Package content loads the YAML content configuration that drives the
// quiz, the 10-day drip sequence, and the news feed list.
package content

// Weights is the per-option score contribution on each axis (0-10 each).
type Weights struct {
	Safety    int `yaml:"safety" json:"safety"`
	Growth    int `yaml:"growth" json:"growth"`
	Knowledge int `yaml:"knowledge" json:"knowledge"`
	Action    int `yaml:"action" json:"action"`
}

// Option is one selectable answer to a question.
type Option struct {
	ID      string  `yaml:"id"`
	Text    string  `yaml:"text"`
	Weights Weights `yaml:"weights"`
}

// Question is one quiz question with its options.
type Question struct {
	ID      string   `yaml:"id"`
	Order   int      `yaml:"order"`
	Text    string   `yaml:"text"`
	Options []Option `yaml:"options"`
}

// Archetype describes one of the four financial-personality types,
// including the tone phrase handed to the summarizer for this segment.
type Archetype struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tone        string   `yaml:"tone"`
	Advice      []string `yaml:"advice"`
}

// Thresholds are the classification cut points, on normalized 0-100 scores.
// Operators retune archetypes here without a rebuild.
type Thresholds struct {
	LearnerMaxKnowledge int `yaml:"learner_max_knowledge"`
	ConservativeMin     int `yaml:"conservative_min_safety"`
	AggressiveMin       int `yaml:"aggressive_min_growth"`
}

// DiagnosisConfig is the full quiz configuration.
type DiagnosisConfig struct {
	Version    string      `yaml:"version"`
	Thresholds Thresholds  `yaml:"thresholds"`
	Questions  []Question  `yaml:"questions"`
	Types      []Archetype `yaml:"types"`
}

// StepMessage is one day's scripted drip message for one archetype.
type StepMessage struct {
	Day     int    `yaml:"day"`
	Subject string `yaml:"subject"`
	Content string `yaml:"content"`
}

// StepMessages maps archetype ID to its ordered 10-day sequence.
type StepMessages struct {
	Version  string                   `yaml:"version"`
	Messages map[string][]StepMessage `yaml:"messages"`
}

// FeedSource is one configured external news feed.
type FeedSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Priority int    `yaml:"priority"`
}

// FeedSources is the feed source list configuration.
type FeedSources struct {
	Version string       `yaml:"version"`
	Sources []FeedSource `yaml:"sources"`
}

// Question looks up a question by ID. Returns nil if absent.
func (c *DiagnosisConfig) Question(id string) *Question {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i]
		}
	}
	return nil
}

// Option looks up an option by ID within a question. Returns nil if absent.
func (q *Question) Option(id string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Type looks up an archetype by ID. Returns nil if absent.
func (c *DiagnosisConfig) Type(id string) *Archetype {
	for i := range c.Types {
		if c.Types[i].ID == id {
			return &c.Types[i]
		}
	}
	return nil
}

// ForDay returns the step message for the given day, or nil if the
// sequence has no entry for it.
func (s *StepMessages) ForDay(archetype string, day int) *StepMessage {
	msgs, ok := s.Messages[archetype]
	if !ok {
		return nil
	}
	for i := range msgs {
		if msgs[i].Day == day {
			return &msgs[i]
		}
	}
	return nil
}

package diagnosis

import (
	"time"

	"github.com/okanehq/moneta/internal/content"
)

// Link codes are valid for 24 hours after the diagnosis is created.
const LinkCodeTTL = 24 * time.Hour

// Result is the immutable outcome of one quiz submission. Scores are the
// normalized 0-100 values (the same unit classification ran on).
type Result struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	TypeName          string   `json:"typeName"`
	Scores            Scores   `json:"scores"`
	Advice            []string `json:"advice"`
	LinkCode          string   `json:"linkCode"`
	LinkCodeExpiresAt string   `json:"linkCodeExpiresAt"`
}

// Run scores the answers, classifies them, and assembles a Result with a
// fresh link code. Pure except for link-code randomness and the clock.
func Run(cfg *content.DiagnosisConfig, answers []Answer) (*Result, error) {
	raw, answered := CalculateScores(cfg, answers)
	scores := Normalize(raw, answered)
	typeID := DetermineType(cfg.Thresholds, scores)

	info := cfg.Type(typeID)

	code, err := GenerateLinkCode()
	if err != nil {
		return nil, err
	}

	return &Result{
		Type:              typeID,
		TypeName:          info.Name,
		Scores:            scores,
		Advice:            info.Advice,
		LinkCode:          code,
		LinkCodeExpiresAt: time.Now().Add(LinkCodeTTL).UTC().Format(time.RFC3339),
	}, nil
}

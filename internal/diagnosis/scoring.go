// Package diagnosis implements the quiz scoring engine and the
// archetype classification policy.
package diagnosis

import (
	"math"

	"github.com/okanehq/moneta/internal/content"
)

// maxWeightPerQuestion bounds each axis weight per answered question and is
// the denominator unit for percentage normalization.
const maxWeightPerQuestion = 10

// Scores holds the four axis counters. Raw sums are the unit of truth;
// Normalize produces the 0-100 presentation values classification runs on.
type Scores struct {
	Safety    int `json:"safety"`
	Growth    int `json:"growth"`
	Knowledge int `json:"knowledge"`
	Action    int `json:"action"`
}

// Add returns the element-wise sum of two score sets.
func (s Scores) Add(o Scores) Scores {
	return Scores{
		Safety:    s.Safety + o.Safety,
		Growth:    s.Growth + o.Growth,
		Knowledge: s.Knowledge + o.Knowledge,
		Action:    s.Action + o.Action,
	}
}

// Answer is one submitted (question, option) pair.
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// CalculateScores folds answers into raw axis totals. Unknown question or
// option IDs are skipped rather than rejected, so malformed input degrades
// to a partial score instead of failing the submission. Duplicate answers
// for the same question are last-write-wins. The second return value is the
// number of answers that contributed.
func CalculateScores(cfg *content.DiagnosisConfig, answers []Answer) (Scores, int) {
	// Fold duplicates first so a resubmitted question replaces the earlier
	// choice instead of double-counting.
	latest := make(map[string]string, len(answers))
	order := make([]string, 0, len(answers))
	for _, a := range answers {
		if _, seen := latest[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		latest[a.QuestionID] = a.OptionID
	}

	var total Scores
	valid := 0

	for _, qid := range order {
		question := cfg.Question(qid)
		if question == nil {
			continue
		}
		option := question.Option(latest[qid])
		if option == nil {
			continue
		}

		total = total.Add(Scores{
			Safety:    option.Weights.Safety,
			Growth:    option.Weights.Growth,
			Knowledge: option.Weights.Knowledge,
			Action:    option.Weights.Action,
		})
		valid++
	}

	return total, valid
}

// Normalize converts raw totals into 0-100 percentages of the maximum
// possible score for the answered question count, rounded half-up.
// Zero answered questions yields all zeros.
func Normalize(raw Scores, answered int) Scores {
	maxPossible := answered * maxWeightPerQuestion
	if maxPossible == 0 {
		return Scores{}
	}

	pct := func(v int) int {
		return int(math.Round(float64(v) / float64(maxPossible) * 100))
	}

	return Scores{
		Safety:    pct(raw.Safety),
		Growth:    pct(raw.Growth),
		Knowledge: pct(raw.Knowledge),
		Action:    pct(raw.Action),
	}
}

// DetermineType maps normalized scores to an archetype ID. The rules form
// an ordered decision list and first match wins:
//
//  1. knowledge below the learner threshold -> learner
//  2. safety at or above the conservative threshold -> conservative
//  3. growth at or above the aggressive threshold -> aggressive
//  4. balanced (unconditional fallback)
//
// The knowledge rule is evaluated first: a literacy gap dominates the
// other axes. With a positive learner threshold, an all-zero score set
// (including the zero-answers case) classifies as learner.
func DetermineType(t content.Thresholds, scores Scores) string {
	if scores.Knowledge < t.LearnerMaxKnowledge {
		return "learner"
	}
	if scores.Safety >= t.ConservativeMin {
		return "conservative"
	}
	if scores.Growth >= t.AggressiveMin {
		return "aggressive"
	}
	return "balanced"
}

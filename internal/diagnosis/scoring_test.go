package diagnosis

import (
	"testing"

	"github.com/okanehq/moneta/internal/content"
)

func testConfig() *content.DiagnosisConfig {
	return &content.DiagnosisConfig{
		Version: "test",
		Thresholds: content.Thresholds{
			LearnerMaxKnowledge: 40,
			ConservativeMin:     70,
			AggressiveMin:       70,
		},
		Questions: []content.Question{
			{
				ID: "q1",
				Options: []content.Option{
					{ID: "a", Weights: content.Weights{Safety: 10, Growth: 0, Knowledge: 3, Action: 2}},
					{ID: "b", Weights: content.Weights{Safety: 0, Growth: 10, Knowledge: 5, Action: 8}},
				},
			},
			{
				ID: "q2",
				Options: []content.Option{
					{ID: "a", Weights: content.Weights{Safety: 5, Growth: 5, Knowledge: 5, Action: 5}},
					{ID: "b", Weights: content.Weights{Safety: 2, Growth: 8, Knowledge: 10, Action: 6}},
				},
			},
		},
		Types: []content.Archetype{
			{ID: "conservative", Name: "Steady Saver"},
			{ID: "balanced", Name: "Balanced Builder"},
			{ID: "aggressive", Name: "Growth Seeker"},
			{ID: "learner", Name: "Curious Starter"},
		},
	}
}

func TestCalculateScores_SumsOptionWeights(t *testing.T) {
	cfg := testConfig()
	scores, valid := CalculateScores(cfg, []Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "b"},
	})

	if valid != 2 {
		t.Fatalf("valid answers = %d, want 2", valid)
	}
	want := Scores{Safety: 12, Growth: 8, Knowledge: 13, Action: 8}
	if scores != want {
		t.Errorf("scores = %+v, want %+v", scores, want)
	}
}

func TestCalculateScores_SkipsUnknownIDs(t *testing.T) {
	cfg := testConfig()
	scores, valid := CalculateScores(cfg, []Answer{
		{QuestionID: "nope", OptionID: "a"},
		{QuestionID: "q1", OptionID: "nope"},
		{QuestionID: "q1", OptionID: "a"},
	})

	if valid != 1 {
		t.Fatalf("valid answers = %d, want 1", valid)
	}
	want := Scores{Safety: 10, Growth: 0, Knowledge: 3, Action: 2}
	if scores != want {
		t.Errorf("scores = %+v, want %+v", scores, want)
	}
}

func TestCalculateScores_EmptyInput(t *testing.T) {
	scores, valid := CalculateScores(testConfig(), nil)
	if valid != 0 {
		t.Fatalf("valid answers = %d, want 0", valid)
	}
	if scores != (Scores{}) {
		t.Errorf("scores = %+v, want all zero", scores)
	}
}

func TestCalculateScores_DuplicateAnswerLastWriteWins(t *testing.T) {
	cfg := testConfig()

	// Re-answering q1 replaces the earlier choice instead of accumulating.
	scores, valid := CalculateScores(cfg, []Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q1", OptionID: "b"},
	})

	if valid != 1 {
		t.Fatalf("valid answers = %d, want 1", valid)
	}
	want := Scores{Safety: 0, Growth: 10, Knowledge: 5, Action: 8}
	if scores != want {
		t.Errorf("scores = %+v, want %+v (option b only)", scores, want)
	}

	// The accumulate interpretation would have produced safety 10.
	if scores.Safety == 10 {
		t.Error("duplicate answers were accumulated, want last write wins")
	}
}

func TestCalculateScores_Additive(t *testing.T) {
	cfg := testConfig()
	setA := []Answer{{QuestionID: "q1", OptionID: "a"}}
	setB := []Answer{{QuestionID: "q2", OptionID: "b"}}

	scoresA, validA := CalculateScores(cfg, setA)
	scoresB, validB := CalculateScores(cfg, setB)
	combined, validC := CalculateScores(cfg, append(append([]Answer{}, setA...), setB...))

	if validC != validA+validB {
		t.Fatalf("combined valid = %d, want %d", validC, validA+validB)
	}
	if combined != scoresA.Add(scoresB) {
		t.Errorf("combined = %+v, want element-wise sum %+v", combined, scoresA.Add(scoresB))
	}
}

func TestNormalize_RoundsHalfUp(t *testing.T) {
	// 1 answered question, max 10 per axis: 5/10 -> 50, and 0.5 cases
	// round up, matching the presentation contract.
	got := Normalize(Scores{Safety: 5, Growth: 1, Knowledge: 10, Action: 0}, 1)
	want := Scores{Safety: 50, Growth: 10, Knowledge: 100, Action: 0}
	if got != want {
		t.Errorf("normalized = %+v, want %+v", got, want)
	}

	// 3/40 = 7.5% rounds to 8.
	got = Normalize(Scores{Safety: 3}, 4)
	if got.Safety != 8 {
		t.Errorf("7.5%% rounded to %d, want 8", got.Safety)
	}
}

func TestNormalize_ZeroAnswered(t *testing.T) {
	if got := Normalize(Scores{Safety: 100}, 0); got != (Scores{}) {
		t.Errorf("normalized = %+v, want all zero", got)
	}
}

func TestDetermineType_RuleOrder(t *testing.T) {
	thresholds := testConfig().Thresholds

	cases := []struct {
		name   string
		scores Scores
		want   string
	}{
		// Knowledge rule is evaluated first even with very high safety.
		{"learner beats conservative", Scores{Safety: 90, Knowledge: 10}, "learner"},
		{"learner beats aggressive", Scores{Growth: 95, Knowledge: 39}, "learner"},
		{"conservative beats aggressive", Scores{Safety: 70, Growth: 90, Knowledge: 50}, "conservative"},
		{"high safety moderate knowledge", Scores{Safety: 70, Growth: 20, Knowledge: 50, Action: 40}, "conservative"},
		{"aggressive", Scores{Safety: 30, Growth: 75, Knowledge: 60}, "aggressive"},
		{"balanced fallback", Scores{Safety: 50, Growth: 50, Knowledge: 50, Action: 50}, "balanced"},
		{"threshold boundaries", Scores{Safety: 69, Growth: 69, Knowledge: 40}, "balanced"},
		// Zero answers normalize to all zeros; with a positive learner
		// threshold that classifies as learner, deterministically.
		{"all zero", Scores{}, "learner"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetermineType(thresholds, tc.scores); got != tc.want {
				t.Errorf("DetermineType(%+v) = %s, want %s", tc.scores, got, tc.want)
			}
		})
	}
}

func TestRun_ProducesCompleteResult(t *testing.T) {
	cfg := testConfig()
	result, err := Run(cfg, []Answer{{QuestionID: "q1", OptionID: "a"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// safety 10/10 -> 100 >= 70, knowledge 3/10 -> 30 < 40: learner first.
	if result.Type != "learner" {
		t.Errorf("type = %s, want learner", result.Type)
	}
	if result.TypeName != "Curious Starter" {
		t.Errorf("type name = %s, want Curious Starter", result.TypeName)
	}
	if !IsValidLinkCode(result.LinkCode) {
		t.Errorf("link code %q is not valid format", result.LinkCode)
	}
}

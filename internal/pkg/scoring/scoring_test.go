package scoring

import (
	"math"
	"testing"

	"moderator/internal/pkg/models"
)

// No flags means a clean 100 with confidence exactly 0.9.
func TestAggregateNoFlags(t *testing.T) {
	score, confidence := Aggregate(nil)
	if score != 100 {
		t.Errorf("Expected score 100, got %d", score)
	}
	if confidence != 0.9 {
		t.Errorf("Expected confidence exactly 0.9, got %f", confidence)
	}

	score, confidence = Aggregate([]models.Flag{})
	if score != 100 || confidence != 0.9 {
		t.Errorf("Empty slice should behave like nil, got score %d confidence %f", score, confidence)
	}
}

func TestAggregatePenaltySum(t *testing.T) {
	flags := []models.Flag{
		{Type: models.FlagToxic, Penalty: 20, Confidence: 0.4},
		{Type: models.FlagLinks, Penalty: 10, Confidence: 0.8},
	}

	score, confidence := Aggregate(flags)
	if score != 70 {
		t.Errorf("Expected score 70, got %d", score)
	}
	want := (0.4 + 0.8) / 2
	if math.Abs(confidence-want) > 1e-9 {
		t.Errorf("Expected mean confidence %f, got %f", want, confidence)
	}
}

// The score floors at zero no matter how many penalties stack up.
func TestAggregateScoreFloor(t *testing.T) {
	flags := []models.Flag{
		{Penalty: 80, Confidence: 0.9},
		{Penalty: 50, Confidence: 1.0},
		{Penalty: 60, Confidence: 0.7},
	}

	score, confidence := Aggregate(flags)
	if score != 0 {
		t.Errorf("Expected score 0, got %d", score)
	}
	if confidence < 0 || confidence > 1 {
		t.Errorf("Confidence out of range: %f", confidence)
	}
}

// Adding any flag never increases the score.
func TestAggregateMonotonicNonIncrease(t *testing.T) {
	base := []models.Flag{
		{Penalty: 20, Confidence: 0.9},
	}
	extras := []models.Flag{
		{Penalty: 0, Confidence: 0.5},
		{Penalty: 10, Confidence: 0.5},
		{Penalty: 80, Confidence: 0.9},
	}

	baseScore, _ := Aggregate(base)
	for _, extra := range extras {
		score, _ := Aggregate(append(append([]models.Flag{}, base...), extra))
		if score > baseScore {
			t.Errorf("Adding flag %+v increased score from %d to %d", extra, baseScore, score)
		}
	}
}

// Score and confidence stay in their documented ranges.
func TestAggregateBounds(t *testing.T) {
	cases := [][]models.Flag{
		nil,
		{{Penalty: 50, Confidence: 1.0}},
		{{Penalty: 200, Confidence: 0.1}, {Penalty: 15, Confidence: 0.6}},
	}

	for _, flags := range cases {
		score, confidence := Aggregate(flags)
		if score < 0 || score > 100 {
			t.Errorf("Score out of range for %+v: %d", flags, score)
		}
		if confidence < 0 || confidence > 1 {
			t.Errorf("Confidence out of range for %+v: %f", flags, confidence)
		}
	}
}

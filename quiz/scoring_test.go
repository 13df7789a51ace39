package quiz

import (
	"testing"

	"github.com/quizarena/backend/models"
)

func submissionFor(bank []models.Question, correctCount int) []SubmittedAnswer {
	answers := make([]SubmittedAnswer, 0, len(bank))
	for i, q := range bank {
		a := SubmittedAnswer{
			QuestionID:    q.ID,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
		}
		if i < correctCount {
			a.Answer = q.Answer
		}
		answers = append(answers, a)
	}
	return answers
}

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name          string
		bankSize      int
		singleCount   int
		multipleCount int
		correct       int
		want          int
	}{
		{"bank smaller than configured", 5, 10, 0, 3, 60},
		{"bank larger than configured", 20, 10, 0, 7, 70},
		{"all correct small bank", 5, 10, 0, 5, 100},
		{"none correct", 20, 10, 0, 0, 0},
		{"all correct capped bank", 20, 10, 0, 10, 100},
		{"thirds round to nearest", 3, 10, 0, 2, 67},
		{"single third", 3, 10, 0, 1, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := makeBank(tt.bankSize, 0)
			got := Score(bank, tt.singleCount, tt.multipleCount, submissionFor(bank, tt.correct))
			if got != tt.want {
				t.Fatalf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreMonotoneAndBounded(t *testing.T) {
	bank := makeBank(7, 3)

	// A served attempt holds min(bank, configured) = 8 questions, so the
	// submission never carries more answers than that.
	served := bank[:8]

	prev := -1
	for correct := 0; correct <= len(served); correct++ {
		score := Score(bank, 6, 2, submissionFor(served, correct))
		if score < 0 || score > 100 {
			t.Fatalf("score %d out of bounds for %d correct", score, correct)
		}
		if score < prev {
			t.Fatalf("score decreased from %d to %d at %d correct", prev, score, correct)
		}
		prev = score
	}
}

func TestScoreZeroDenominators(t *testing.T) {
	if got := Score(nil, 10, 0, nil); got != 0 {
		t.Fatalf("empty bank: got %d, want 0", got)
	}

	bank := makeBank(5, 0)
	if got := Score(bank, 0, 0, submissionFor(bank, 5)); got != 0 {
		// configured total 0 with a larger bank hits the configured-total
		// denominator, which is zero
		t.Fatalf("zero configured total: got %d, want 0", got)
	}
	if got := Score(nil, 0, 0, nil); got != 0 {
		t.Fatalf("everything zero: got %d, want 0", got)
	}
}

func TestScoreSkipsDeletedQuestions(t *testing.T) {
	bank := makeBank(5, 0)
	answers := submissionFor(bank, 5)
	// One question was deleted after the quiz started.
	answers = append(answers, SubmittedAnswer{QuestionID: 999, Answer: "A", CorrectAnswer: "A"})

	if got := Score(bank, 10, 0, answers); got != 100 {
		t.Fatalf("got %d, want 100 (missing question must contribute nothing)", got)
	}
}

func TestScoreTrustsSubmissionSnapshot(t *testing.T) {
	bank := makeBank(1, 0) // bank answer is "A"

	// The presentation was shuffled: the participant saw the correct option
	// under key "C" and picked it. The bank key must not override the snapshot.
	answers := []SubmittedAnswer{{QuestionID: 1, Answer: "C", CorrectAnswer: "C"}}
	if got := Score(bank, 1, 0, answers); got != 100 {
		t.Fatalf("snapshot answer ignored: got %d, want 100", got)
	}

	// Legacy payloads without a snapshot fall back to the bank's answer.
	legacy := []SubmittedAnswer{{QuestionID: 1, Answer: "A"}}
	if got := Score(bank, 1, 0, legacy); got != 100 {
		t.Fatalf("legacy fallback: got %d, want 100", got)
	}
}

func TestPointsPerQuestion(t *testing.T) {
	tests := []struct {
		bankSize   int
		configured int
		want       float64
	}{
		{5, 10, 20},
		{20, 10, 10},
		{10, 10, 10},
		{0, 10, 0},
		{5, 0, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := PointsPerQuestion(tt.bankSize, tt.configured, 0); got != tt.want {
			t.Errorf("PointsPerQuestion(%d, %d) = %v, want %v", tt.bankSize, tt.configured, got, tt.want)
		}
	}
}

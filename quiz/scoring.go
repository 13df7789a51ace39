package quiz

import (
	"math"

	"github.com/quizarena/backend/models"
)

// SubmittedAnswer is one answered question as the client packaged it: the
// participant's answer plus the option set and correct answer exactly as they
// were presented (reflecting any randomization at session-build time).
type SubmittedAnswer struct {
	QuestionID    uint              `json:"questionId"`
	Answer        string            `json:"answer"`
	Options       models.OptionList `json:"options,omitempty"`
	CorrectAnswer string            `json:"correctAnswer,omitempty"`
}

// PointsPerQuestion returns the value of one correct answer. The denominator is
// the smaller of the bank size and the configured total; both zero guards return 0.
func PointsPerQuestion(bankSize, singleCount, multipleCount int) float64 {
	configured := singleCount + multipleCount
	if bankSize <= configured {
		if bankSize > 0 {
			return 100 / float64(bankSize)
		}
		return 0
	}
	if configured > 0 {
		return 100 / float64(configured)
	}
	return 0
}

// Score computes the total for a submission against the competition's bank.
// A question is correct iff the submitted answer equals the correct answer
// recorded in the submission payload; the bank's current answer is only a
// fallback for payloads without a snapshot, protecting against answer drift if
// the bank is edited mid-session. Answers for questions no longer in the bank
// are skipped. The sum is rounded to the nearest integer.
func Score(bank []models.Question, singleCount, multipleCount int, answers []SubmittedAnswer) int {
	perQuestion := PointsPerQuestion(len(bank), singleCount, multipleCount)

	byID := make(map[uint]models.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}

	total := 0.0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		correct := a.CorrectAnswer
		if correct == "" {
			correct = q.Answer
		}
		if a.Answer == correct {
			total += perQuestion
		}
	}
	return int(math.Round(total))
}

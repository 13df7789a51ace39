package services

import (
	"errors"
	"math/rand"
	"time"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/quiz"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("quiz record not found")

// ResolveCompetitionSettings loads a competition's settings row and applies
// defaults. A missing row resolves to all defaults.
func ResolveCompetitionSettings(competitionID string) (models.ResolvedSettings, error) {
	var row models.CompetitionSettings
	err := database.DB.First(&row, "competition_id = ?", competitionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ResolveSettings(nil), nil
		}
		return models.ResolvedSettings{}, err
	}
	return models.ResolveSettings(&row), nil
}

func competitionBank(competitionID string) ([]models.Question, error) {
	var bank []models.Question
	q := database.DB
	if competitionID != "" {
		q = q.Where("competition_id = ?", competitionID)
	}
	if err := q.Find(&bank).Error; err != nil {
		return nil, err
	}
	return bank, nil
}

// StartQuiz draws the question set for one attempt from the competition's bank
// per its configured counts, shuffling options when the competition asks for it.
func StartQuiz(competitionID string) ([]quiz.Snapshot, models.ResolvedSettings, error) {
	settings, err := ResolveCompetitionSettings(competitionID)
	if err != nil {
		return nil, settings, err
	}

	bank, err := competitionBank(competitionID)
	if err != nil {
		return nil, settings, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	snapshots, err := quiz.BuildSession(bank, settings.SingleChoiceCount, settings.MultipleChoiceCount, settings.RandomOptions, rng)
	if err != nil {
		return nil, settings, err
	}
	return snapshots, settings, nil
}

type Submission struct {
	CompetitionID *string
	UserName      string
	TimeTaken     int
	Answers       []quiz.SubmittedAnswer
}

type SubmitResult struct {
	RecordID          uint `json:"recordId"`
	Score             int  `json:"score"`
	Rank              int  `json:"rank"`
	TotalParticipants int  `json:"totalParticipants"`
}

// SubmitQuiz scores a submission against the competition's bank, persists the
// attempt record and reports the point-in-time rank. The persisted details keep
// the presentation snapshot so the review screen can reconstruct exactly what
// the participant saw.
func SubmitQuiz(sub Submission) (*SubmitResult, *models.QuizRecord, error) {
	competitionID := ""
	if sub.CompetitionID != nil {
		competitionID = *sub.CompetitionID
	}

	settings, err := ResolveCompetitionSettings(competitionID)
	if err != nil {
		return nil, nil, err
	}
	bank, err := competitionBank(competitionID)
	if err != nil {
		return nil, nil, err
	}

	score := quiz.Score(bank, settings.SingleChoiceCount, settings.MultipleChoiceCount, sub.Answers)

	details := make(models.AnswerDetails, 0, len(sub.Answers))
	for _, a := range sub.Answers {
		details = append(details, models.AnswerDetail{
			QuestionID:    a.QuestionID,
			Answer:        a.Answer,
			Options:       a.Options,
			CorrectAnswer: a.CorrectAnswer,
		})
	}

	record := models.QuizRecord{
		CompetitionID: sub.CompetitionID,
		UserName:      sub.UserName,
		Score:         score,
		TimeTaken:     sub.TimeTaken,
		Details:       details,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return nil, nil, err
	}

	rank, total, err := RankInCompetition(sub.CompetitionID, score)
	if err != nil {
		return nil, nil, err
	}

	return &SubmitResult{
		RecordID:          record.ID,
		Score:             score,
		Rank:              rank,
		TotalParticipants: total,
	}, &record, nil
}

// ReviewDetail is one question of the post-quiz review, rebuilt from the stored
// snapshot rather than re-queried against the live answer key.
type ReviewDetail struct {
	ID              uint              `json:"id"`
	UserAnswer      string            `json:"userAnswer"`
	CorrectAnswer   string            `json:"correctAnswer"`
	IsCorrect       bool              `json:"isCorrect"`
	Explanation     string            `json:"explanation"`
	QuestionContent string            `json:"questionContent"`
	Options         models.OptionList `json:"options"`
}

type ResultView struct {
	Record            LeaderboardEntry `json:"record"`
	Rank              int              `json:"rank"`
	TotalParticipants int              `json:"totalParticipants"`
	Details           []ReviewDetail   `json:"details"`
}

// FetchResult loads a stored record plus its rank snapshot and per-question
// review. Questions deleted since the attempt are skipped.
func FetchResult(recordID uint) (*ResultView, error) {
	var record models.QuizRecord
	if err := database.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var questions []models.Question
	if err := database.DB.Find(&questions).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	details := make([]ReviewDetail, 0, len(record.Details))
	for _, item := range record.Details {
		q, ok := byID[item.QuestionID]
		if !ok {
			continue
		}

		correct := item.CorrectAnswer
		if correct == "" {
			correct = q.Answer
		}
		options := item.Options
		if len(options) == 0 {
			options = q.Options
		}

		details = append(details, ReviewDetail{
			ID:              item.QuestionID,
			UserAnswer:      item.Answer,
			CorrectAnswer:   correct,
			IsCorrect:       item.Answer == correct,
			Explanation:     q.Explanation,
			QuestionContent: q.Content,
			Options:         options,
		})
	}

	rank, total, err := RankOverall(record.Score)
	if err != nil {
		return nil, err
	}

	return &ResultView{
		Record: LeaderboardEntry{
			ID:        record.ID,
			UserName:  record.UserName,
			Score:     record.Score,
			TimeTaken: record.TimeTaken,
			CreatedAt: record.CreatedAt,
		},
		Rank:              rank,
		TotalParticipants: total,
		Details:           details,
	}, nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerDetail is one question of a submission as the participant saw it. Options
// and CorrectAnswer are snapshots taken at session-build time, so a review screen
// can reconstruct a randomized presentation even after the bank changes.
type AnswerDetail struct {
	QuestionID    uint       `json:"questionId"`
	Answer        string     `json:"answer"`
	Options       OptionList `json:"options,omitempty"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
}

type AnswerDetails []AnswerDetail

func (d AnswerDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *AnswerDetails) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*d = nil
		return nil
	default:
		return errors.New("unsupported type for AnswerDetails")
	}
	return json.Unmarshal(data, d)
}

// QuizRecord is an immutable snapshot of one completed attempt. It is created
// once at submission and never updated.
type QuizRecord struct {
	ID            uint          `gorm:"primary_key" json:"id"`
	CompetitionID *string       `gorm:"size:32;index" json:"competition_id"`
	UserName      string        `gorm:"size:100;not null" json:"userName"`
	Score         int           `gorm:"not null" json:"score"`
	TimeTaken     int           `gorm:"not null" json:"timeTaken"`
	Details       AnswerDetails `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time     `json:"createdAt"`
}

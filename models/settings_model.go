package models

import "time"

// Defaults applied when a competition has not saved a value.
const (
	DefaultQuestionTimer       = 20
	DefaultSingleChoiceCount   = 10
	DefaultMultipleChoiceCount = 0
)

// CompetitionSettings is one row per competition. Numeric fields are pointers so
// "never saved" is distinguishable from an explicit zero; ResolveSettings applies
// the documented defaults at read time.
type CompetitionSettings struct {
	CompetitionID string `gorm:"size:32;primary_key" json:"competition_id"`

	QuestionTimer       *int `json:"question_timer,omitempty"`
	SingleChoiceCount   *int `json:"single_choice_count,omitempty"`
	MultipleChoiceCount *int `json:"multiple_choice_count,omitempty"`

	RandomOptions bool `gorm:"default:false" json:"random_options"`
	AllowPrev     bool `gorm:"default:false" json:"allow_prev"`

	CertificateTitle      string `gorm:"size:255" json:"certificate_title"`
	CertificateNote       string `gorm:"size:500" json:"certificate_note"`
	CertificateBackground string `gorm:"size:500" json:"certificate_background"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ResolvedSettings has every default applied and is what the quiz flow consumes.
type ResolvedSettings struct {
	QuestionTimer       int  `json:"question_timer"`
	SingleChoiceCount   int  `json:"single_choice_count"`
	MultipleChoiceCount int  `json:"multiple_choice_count"`
	RandomOptions       bool `json:"random_options"`
	AllowPrev           bool `json:"allow_prev"`

	CertificateTitle      string `json:"certificate_title"`
	CertificateNote       string `json:"certificate_note"`
	CertificateBackground string `json:"certificate_background"`
}

// ResolveSettings fills defaults for any unset field. A nil receiver resolves to
// all defaults, so callers do not need to special-case a missing row.
func ResolveSettings(s *CompetitionSettings) ResolvedSettings {
	out := ResolvedSettings{
		QuestionTimer:       DefaultQuestionTimer,
		SingleChoiceCount:   DefaultSingleChoiceCount,
		MultipleChoiceCount: DefaultMultipleChoiceCount,
	}
	if s == nil {
		return out
	}

	if s.QuestionTimer != nil {
		out.QuestionTimer = *s.QuestionTimer
	}
	if s.SingleChoiceCount != nil {
		out.SingleChoiceCount = *s.SingleChoiceCount
	}
	if s.MultipleChoiceCount != nil {
		out.MultipleChoiceCount = *s.MultipleChoiceCount
	}
	out.RandomOptions = s.RandomOptions
	out.AllowPrev = s.AllowPrev
	out.CertificateTitle = s.CertificateTitle
	out.CertificateNote = s.CertificateNote
	out.CertificateBackground = s.CertificateBackground
	return out
}

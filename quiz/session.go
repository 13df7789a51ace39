package quiz

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quizarena/backend/models"
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateSubmitting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

var (
	ErrNameRequired   = errors.New("participant name is required")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotInProgress  = errors.New("session is not in progress")
	ErrNotSubmitting  = errors.New("session is not awaiting submission")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrPrevNotAllowed = errors.New("backward navigation is disabled")
	ErrUnknownOption  = errors.New("option key not present on this question")
)

// SessionConfig carries the per-competition knobs the state machine needs.
type SessionConfig struct {
	// QuestionTimer is the per-question countdown. Zero falls back to the
	// default timer length.
	QuestionTimer time.Duration
	AllowPrev     bool

	// CompetitionID scopes the attempt for submission; empty means the
	// legacy global bank.
	CompetitionID string
}

// Session is the answer collector for one attempt. The countdown timer and the
// caller mutate the same state under one mutex; an epoch counter guarantees a
// manual transition and a timer-driven auto-advance cannot both fire for the
// same question (last transition wins, the stale timer callback is a no-op).
type Session struct {
	mu  sync.Mutex
	cfg SessionConfig

	userName  string
	questions []Snapshot
	answers   []string
	index     int
	state     State
	startedAt time.Time
	deadline  time.Time

	timer *time.Timer
	epoch uint64

	submission    []SubmittedAnswer
	submitClaimed bool
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.QuestionTimer <= 0 {
		cfg.QuestionTimer = models.DefaultQuestionTimer * time.Second
	}
	return &Session{cfg: cfg}
}

// Start moves the session to in_progress. It requires a non-empty participant
// name and a non-empty question set, and records the attempt start time.
func (s *Session) Start(userName string, questions []Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	if strings.TrimSpace(userName) == "" {
		return ErrNameRequired
	}
	if len(questions) == 0 {
		return ErrEmptyBank
	}

	s.userName = userName
	s.questions = questions
	s.answers = make([]string, len(questions))
	s.index = 0
	s.state = StateInProgress
	s.startedAt = time.Now()
	s.armTimerLocked()
	return nil
}

// Select records an option choice on the current question. Multiple-choice
// questions toggle membership of the key; single-choice questions replace the
// answer outright. The stored answer string stays sorted and deduplicated.
func (s *Session) Select(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}

	q := s.questions[s.index]
	if !q.Options.HasKey(key) {
		return ErrUnknownOption
	}

	if q.Type == models.QuestionTypeMultiple {
		current := s.answers[s.index]
		if strings.Contains(current, key) {
			current = strings.Replace(current, key, "", 1)
		} else {
			current += key
		}
		s.answers[s.index] = SortAnswer(current)
	} else {
		s.answers[s.index] = key
	}
	return nil
}

// Next advances past the current question, resetting the countdown. Advancing
// past the last question moves the session to submitting and packages every
// question's answer, visited or not.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	s.advanceLocked()
	return nil
}

// Prev revisits the previous question. It is only permitted when the
// competition allows it, and it resets the countdown rather than restoring
// remaining time.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if !s.cfg.AllowPrev {
		return ErrPrevNotAllowed
	}
	if s.index > 0 {
		s.index--
		s.armTimerLocked()
	}
	return nil
}

// Package returns the submission payload. Only valid once the session has
// reached submitting.
func (s *Session) Package() ([]SubmittedAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting && s.state != StateCompleted {
		return nil, ErrNotSubmitting
	}
	out := make([]SubmittedAnswer, len(s.submission))
	copy(out, s.submission)
	return out, nil
}

// ClaimSubmission takes exclusive ownership of the pending submission. Exactly
// one caller wins; concurrent callers get ErrSubmitInFlight. A caller whose
// persistence fails must call ReleaseSubmission so a retry can claim again.
func (s *Session) ClaimSubmission() ([]SubmittedAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return nil, ErrNotSubmitting
	}
	if s.submitClaimed {
		return nil, ErrSubmitInFlight
	}
	s.submitClaimed = true
	out := make([]SubmittedAnswer, len(s.submission))
	copy(out, s.submission)
	return out, nil
}

// ReleaseSubmission returns a claimed submission to the pool after a failed
// persistence attempt.
func (s *Session) ReleaseSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitClaimed = false
}

// Complete acknowledges a successful submission. A failed submission simply
// leaves the session in submitting so the caller can retry.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateCompleted
	return nil
}

// Abandon tears the session down without producing a record.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Session) Config() SessionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

func (s *Session) Questions() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// Answer returns the answer collected so far for question index i.
func (s *Session) Answer(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.answers) {
		return ""
	}
	return s.answers[i]
}

// TimeLeft reports the whole seconds remaining on the current question.
func (s *Session) TimeLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return 0
	}
	left := int(time.Until(s.deadline).Seconds())
	if left < 0 {
		left = 0
	}
	return left
}

// Elapsed is the attempt duration in whole seconds.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return int(time.Since(s.startedAt).Seconds())
}

// advanceLocked is the shared transition for a manual "next" and a countdown
// expiry. An unanswered question simply keeps its empty answer.
func (s *Session) advanceLocked() {
	if s.index < len(s.questions)-1 {
		s.index++
		s.armTimerLocked()
		return
	}

	s.stopTimerLocked()
	s.state = StateSubmitting
	s.submission = make([]SubmittedAnswer, 0, len(s.questions))
	for i, q := range s.questions {
		s.submission = append(s.submission, SubmittedAnswer{
			QuestionID:    q.OriginalID,
			Answer:        s.answers[i],
			Options:       q.Options,
			CorrectAnswer: q.Answer,
		})
	}
}

func (s *Session) armTimerLocked() {
	s.stopTimerLocked()
	s.deadline = time.Now().Add(s.cfg.QuestionTimer)

	epoch := s.epoch
	s.timer = time.AfterFunc(s.cfg.QuestionTimer, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch || s.state != StateInProgress {
			return
		}
		s.advanceLocked()
	})
}

func (s *Session) stopTimerLocked() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

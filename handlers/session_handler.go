package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/quiz"
	"github.com/quizarena/backend/services"
	"github.com/quizarena/backend/websocket"
)

// Hosted sessions keep the answer-collection state machine on the server for
// clients that cannot run it themselves. The answer key never leaves the
// server on this path.

type StartSessionRequest struct {
	CompetitionID string `json:"competitionId" validate:"required"`
	UserName      string `json:"userName" validate:"required"`
}

type sessionQuestionView struct {
	Index   int               `json:"index"`
	Type    string            `json:"type"`
	Content string            `json:"content"`
	Options models.OptionList `json:"options"`
}

type sessionStateView struct {
	State    string               `json:"state"`
	Index    int                  `json:"index"`
	Total    int                  `json:"total"`
	TimeLeft int                  `json:"timeLeft"`
	Answer   string               `json:"answer"`
	Question *sessionQuestionView `json:"question,omitempty"`
}

func viewOf(s *quiz.Session) sessionStateView {
	view := sessionStateView{
		State:    s.State().String(),
		Index:    s.Index(),
		Total:    len(s.Questions()),
		TimeLeft: s.TimeLeft(),
		Answer:   s.Answer(s.Index()),
	}
	if s.State() == quiz.StateInProgress {
		q := s.Questions()[view.Index]
		view.Question = &sessionQuestionView{
			Index:   view.Index,
			Type:    q.Type,
			Content: q.Content,
			Options: q.Options,
		}
	}
	return view
}

func StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snapshots, settings, err := services.StartQuiz(req.CompetitionID)
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyBank) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No questions available yet"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start quiz"})
	}

	session := quiz.NewSession(quiz.SessionConfig{
		QuestionTimer: time.Duration(settings.QuestionTimer) * time.Second,
		AllowPrev:     settings.AllowPrev,
		CompetitionID: req.CompetitionID,
	})
	if err := session.Start(req.UserName, snapshots); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	token := services.Sessions.Put(session)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"session": viewOf(session),
	})
}

func sessionFromToken(c *fiber.Ctx) (*quiz.Session, bool) {
	return services.Sessions.Get(c.Params("token"))
}

type SelectOptionRequest struct {
	Key string `json:"key" validate:"required,len=1"`
}

func SelectSessionOption(c *fiber.Ctx) error {
	session, ok := sessionFromToken(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	var req SelectOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := session.Select(req.Key); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(viewOf(session))
}

// AdvanceSession moves to the next question; past the last question it scores
// and persists the attempt, completing the session.
func AdvanceSession(c *fiber.Ctx) error {
	session, ok := sessionFromToken(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	if err := session.Next(); err != nil && session.State() != quiz.StateSubmitting {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if session.State() != quiz.StateSubmitting {
		return c.JSON(viewOf(session))
	}

	// Only one concurrent advance may persist the attempt.
	answers, err := session.ClaimSubmission()
	if err != nil {
		if errors.Is(err, quiz.ErrSubmitInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Submission already in progress"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to package submission"})
	}

	competitionID := session.Config().CompetitionID
	var scoped *string
	if competitionID != "" {
		scoped = &competitionID
	}

	result, record, err := services.SubmitQuiz(services.Submission{
		CompetitionID: scoped,
		UserName:      session.UserName(),
		TimeTaken:     session.Elapsed(),
		Answers:       answers,
	})
	if err != nil {
		// Submission failed; the session stays in submitting for a retry.
		session.ReleaseSubmission()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit quiz"})
	}

	if err := session.Complete(); err == nil {
		services.Sessions.Remove(c.Params("token"))
	}
	websocket.PublishRecord(record)

	return c.JSON(fiber.Map{
		"session": viewOf(session),
		"result":  result,
	})
}

func RewindSession(c *fiber.Ctx) error {
	session, ok := sessionFromToken(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	if err := session.Prev(); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, quiz.ErrPrevNotAllowed) {
			status = fiber.StatusForbidden
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(viewOf(session))
}

func GetSessionState(c *fiber.Ctx) error {
	session, ok := sessionFromToken(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(viewOf(session))
}

// AbandonSession drops an in-flight session without persisting a record.
func AbandonSession(c *fiber.Ctx) error {
	services.Sessions.Remove(c.Params("token"))
	return c.JSON(fiber.Map{"success": true})
}

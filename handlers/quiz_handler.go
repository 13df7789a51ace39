package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/quiz"
	"github.com/quizarena/backend/services"
	"github.com/quizarena/backend/websocket"
)

// StartQuiz serves the question set for one attempt: a random draw per the
// competition's configured counts, with options shuffled when enabled.
func StartQuiz(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	snapshots, settings, err := services.StartQuiz(competitionID)
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyBank) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No questions available yet"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start quiz"})
	}

	return c.JSON(fiber.Map{
		"questions":      snapshots,
		"question_timer": settings.QuestionTimer,
		"allow_prev":     settings.AllowPrev,
	})
}

type SubmitQuizRequest struct {
	UserName      string                 `json:"userName" validate:"required"`
	CompetitionID *string                `json:"competitionId"`
	TimeTaken     int                    `json:"timeTaken"`
	Answers       []quiz.SubmittedAnswer `json:"answers" validate:"required,min=1"`
}

func SubmitQuiz(c *fiber.Ctx) error {
	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, record, err := services.SubmitQuiz(services.Submission{
		CompetitionID: req.CompetitionID,
		UserName:      req.UserName,
		TimeTaken:     req.TimeTaken,
		Answers:       req.Answers,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit quiz"})
	}

	websocket.PublishRecord(record)

	return c.JSON(result)
}

func GetResult(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid record id"})
	}

	view, err := services.FetchResult(uint(recordID))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch result"})
	}
	return c.JSON(view)
}

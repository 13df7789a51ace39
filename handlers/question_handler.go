package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/quiz"
	"github.com/quizarena/backend/services"
	"gorm.io/gorm"
)

var errAnswerKeyMissing = errors.New("answer keys must exist in options")

type QuestionRequest struct {
	CompetitionID *string           `json:"competition_id"`
	Type          string            `json:"type" validate:"required,oneof=single multiple"`
	Content       string            `json:"content" validate:"required"`
	Options       models.OptionList `json:"options" validate:"required"`
	Answer        string            `json:"answer" validate:"required"`
	Explanation   string            `json:"explanation"`
}

func (r *QuestionRequest) toQuestion() (models.Question, error) {
	if err := quiz.ValidateOptions(r.Options); err != nil {
		return models.Question{}, err
	}
	answer := quiz.SortAnswer(strings.ToUpper(r.Answer))
	for _, key := range strings.Split(answer, "") {
		if !r.Options.HasKey(key) {
			return models.Question{}, errAnswerKeyMissing
		}
	}
	return models.Question{
		CompetitionID: r.CompetitionID,
		Type:          r.Type,
		Content:       r.Content,
		Options:       r.Options,
		Answer:        answer,
		Explanation:   r.Explanation,
	}, nil
}

func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question, err := req.toQuestion()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func ListQuestions(c *fiber.Ctx) error {
	q := database.DB.Order("created_at DESC")
	if competitionID := c.Query("competitionId"); competitionID != "" {
		q = q.Where("competition_id = ?", competitionID)
	}

	var questions []models.Question
	if err := q.Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}
	return c.JSON(questions)
}

func UpdateQuestion(c *fiber.Ctx) error {
	var question models.Question
	if err := database.DB.First(&question, "id = ?", c.Params("questionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := req.toQuestion()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question.Type = updated.Type
	question.Content = updated.Content
	question.Options = updated.Options
	question.Answer = updated.Answer
	question.Explanation = updated.Explanation
	if err := database.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}
	return c.JSON(question)
}

// DeleteQuestion removes one question. Deleting an id that does not exist is a
// success with zero effect.
func DeleteQuestion(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Question{}, "id = ?", c.Params("questionId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.JSON(fiber.Map{"success": true, "deleted": result.RowsAffected})
}

// DeleteAllQuestions clears a competition's bank atomically.
func DeleteAllQuestions(c *fiber.Ctx) error {
	competitionID := c.Query("competitionId")
	if competitionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing competitionId"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Where("competition_id = ?", competitionID).Delete(&models.Question{}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete questions"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// ImportQuestions accepts either an xlsx upload or a tab-delimited text block.
// Malformed rows are skipped rather than failing the whole import.
func ImportQuestions(c *fiber.Ctx) error {
	var competitionID *string
	if id := c.FormValue("competitionId"); id != "" {
		competitionID = &id
	}

	var questions []models.Question

	if file, err := c.FormFile("file"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
		}
		defer f.Close()

		questions, err = services.ParseSpreadsheet(f, competitionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse spreadsheet"})
		}
	} else if text := c.FormValue("text"); text != "" {
		questions = services.ParseDelimited(text, competitionID)
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Provide a file or a text block"})
	}

	count, err := services.ImportQuestions(questions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to import questions"})
	}
	return c.JSON(fiber.Map{"count": count})
}

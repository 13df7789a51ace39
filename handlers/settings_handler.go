package handlers

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/services"
)

type SettingsRequest struct {
	QuestionTimer       *int    `json:"questionTimer" validate:"omitempty,min=5,max=600"`
	SingleChoiceCount   *int    `json:"singleChoiceCount" validate:"omitempty,min=0,max=200"`
	MultipleChoiceCount *int    `json:"multipleChoiceCount" validate:"omitempty,min=0,max=200"`
	RandomOptions       *bool   `json:"randomOptions"`
	AllowPrev           *bool   `json:"allowPrev"`
	CertificateTitle    *string `json:"certificateTitle"`
	CertificateNote     *string `json:"certificateNote"`
}

// GetSettings returns the resolved quiz settings for a competition together
// with its display fields, the way the player start screen consumes them.
func GetSettings(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	resolved, err := services.ResolveCompetitionSettings(competitionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}

	var questionCount int64
	database.DB.Model(&models.Question{}).Where("competition_id = ?", competitionID).Count(&questionCount)

	return c.JSON(fiber.Map{
		"competitionId":         competition.ID,
		"title":                 competition.Title,
		"subtitle":              competition.Subtitle,
		"banner":                competition.Banner,
		"questionCount":         questionCount,
		"questionTimer":         resolved.QuestionTimer,
		"singleChoiceCount":     resolved.SingleChoiceCount,
		"multipleChoiceCount":   resolved.MultipleChoiceCount,
		"randomOptions":         resolved.RandomOptions,
		"allowPrev":             resolved.AllowPrev,
		"certificateTitle":      resolved.CertificateTitle,
		"certificateNote":       resolved.CertificateNote,
		"certificateBackground": resolved.CertificateBackground,
	})
}

// SaveSettings upserts per-competition settings. Only fields present in the
// payload are changed.
func SaveSettings(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}

	var settings models.CompetitionSettings
	err := database.DB.First(&settings, "competition_id = ?", competitionID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	settings.CompetitionID = competitionID

	if req.QuestionTimer != nil {
		settings.QuestionTimer = req.QuestionTimer
	}
	if req.SingleChoiceCount != nil {
		settings.SingleChoiceCount = req.SingleChoiceCount
	}
	if req.MultipleChoiceCount != nil {
		settings.MultipleChoiceCount = req.MultipleChoiceCount
	}
	if req.RandomOptions != nil {
		settings.RandomOptions = *req.RandomOptions
	}
	if req.AllowPrev != nil {
		settings.AllowPrev = *req.AllowPrev
	}
	if req.CertificateTitle != nil {
		settings.CertificateTitle = *req.CertificateTitle
	}
	if req.CertificateNote != nil {
		settings.CertificateNote = *req.CertificateNote
	}

	if err := database.DB.Save(&settings).Error; err != nil {
		log.Printf("🔥 Failed to save settings for competition %s: %v", competitionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}

	return c.JSON(settings)
}

// UploadCertificateBackground stores a custom certificate background image and
// records its URL in the competition settings.
func UploadCertificateBackground(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}

	fileHeader, err := c.FormFile("background")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Background image is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read upload"})
	}

	url, err := services.UploadCertificateBackground(data, competitionID)
	if err != nil {
		log.Printf("🔥 Certificate background upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload background"})
	}

	var settings models.CompetitionSettings
	err = database.DB.First(&settings, "competition_id = ?", competitionID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	settings.CompetitionID = competitionID
	settings.CertificateBackground = url

	if err := database.DB.Save(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}

	return c.JSON(fiber.Map{"url": url})
}

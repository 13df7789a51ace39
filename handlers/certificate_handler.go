package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/services"
)

// GetCertificate renders a certificate image for a finished quiz record and
// returns its hosted URL.
func GetCertificate(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var record models.QuizRecord
	if err := database.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var competition models.Competition
	settings := models.ResolveSettings(nil)
	if record.CompetitionID != nil {
		if err := database.DB.First(&competition, "id = ?", *record.CompetitionID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		resolved, err := services.ResolveCompetitionSettings(*record.CompetitionID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
		}
		settings = resolved
	}

	url, err := services.GenerateCertificate(record, competition, settings)
	if err != nil {
		log.Printf("🔥 Certificate generation failed for record %d: %v", record.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate certificate"})
	}

	return c.JSON(fiber.Map{"url": url})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/services"
	"gorm.io/gorm"
)

func GetLeaderboard(c *fiber.Ctx) error {
	entries, err := services.FetchLeaderboard(c.Query("competitionId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}
	return c.JSON(entries)
}

func GetHistory(c *fiber.Ctx) error {
	entries, err := services.FetchHistory(c.Query("competitionId"), c.Query("userName"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch history"})
	}
	return c.JSON(entries)
}

// DeleteRecords removes a single record by id, or every record of a
// competition when all=true. The bulk path runs in one transaction.
func DeleteRecords(c *fiber.Ctx) error {
	competitionID := c.Query("competitionId")

	if c.Query("all") == "true" {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			q := tx.Model(&models.QuizRecord{})
			if competitionID != "" {
				q = q.Where("competition_id = ?", competitionID)
			} else {
				q = q.Where("1 = 1")
			}
			return q.Delete(&models.QuizRecord{}).Error
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete records"})
		}
		return c.JSON(fiber.Map{"success": true, "message": "Records deleted"})
	}

	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing id"})
	}

	q := database.DB
	if competitionID != "" {
		q = q.Where("competition_id = ?", competitionID)
	}
	result := q.Delete(&models.QuizRecord{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete record"})
	}
	return c.JSON(fiber.Map{"success": true, "deleted": result.RowsAffected})
}

package handlers

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/services"
	"github.com/quizarena/backend/utils"
	"gorm.io/gorm"
)

// CreateCompetition accepts multipart form data so the banner image can ride
// along with the title fields.
func CreateCompetition(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	bannerURL := c.FormValue("banner")
	if file, err := c.FormFile("banner"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read banner file"})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read banner file"})
		}

		url, err := services.UploadBanner(data)
		if err != nil {
			// A competition without a banner is still usable.
			log.Printf("🔥 Banner upload failed: %v", err)
		} else {
			bannerURL = url
		}
	}

	id, err := utils.GenerateCompetitionID(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to allocate competition id"})
	}

	competition := models.Competition{
		ID:        id,
		Title:     title,
		Subtitle:  c.FormValue("subtitle"),
		Banner:    bannerURL,
		CreatedBy: userID,
	}
	if err := database.DB.Create(&competition).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create competition"})
	}

	return c.Status(fiber.StatusCreated).JSON(competition)
}

func ListCompetitions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var competitions []models.Competition
	if err := database.DB.Where("created_by = ?", userID).Order("created_at DESC").Find(&competitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch competitions"})
	}
	return c.JSON(competitions)
}

type adminCompetitionView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	CreatorName   string `json:"creator_name"`
	QuestionCount int    `json:"question_count"`
}

// AdminListCompetitions is the dashboard view: every competition with its
// creator and question-bank size.
func AdminListCompetitions(c *fiber.Ctx) error {
	views := []adminCompetitionView{}
	err := database.DB.Raw(`
		SELECT c.id, c.title, c.created_at, u.username AS creator_name,
		       (SELECT COUNT(*) FROM questions q WHERE q.competition_id = c.id) AS question_count
		FROM competitions c
		LEFT JOIN users u ON c.created_by = u.id
		ORDER BY c.created_at DESC
	`).Scan(&views).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch competitions"})
	}
	return c.JSON(views)
}

func GetCompetition(c *fiber.Ctx) error {
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Params("competitionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}
	return c.JSON(competition)
}

type UpdateCompetitionRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Banner   *string `json:"banner"`
}

func UpdateCompetition(c *fiber.Ctx) error {
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Params("competitionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}

	var req UpdateCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Title != nil {
		competition.Title = *req.Title
	}
	if req.Subtitle != nil {
		competition.Subtitle = *req.Subtitle
	}
	if req.Banner != nil {
		competition.Banner = *req.Banner
	}
	if err := database.DB.Save(&competition).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update competition"})
	}
	return c.JSON(competition)
}

// DeleteCompetition cascades to the competition's questions, records and
// settings in one transaction, so readers never observe a half-deleted tenant.
func DeleteCompetition(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competition_id = ?", competitionID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("competition_id = ?", competitionID).Delete(&models.QuizRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("competition_id = ?", competitionID).Delete(&models.CompetitionSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Competition{}, "id = ?", competitionID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete competition"})
	}

	return c.JSON(fiber.Map{"success": true})
}

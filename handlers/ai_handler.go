package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/services"
)

// GenerateQuestions sends pasted or uploaded source text to the configured AI
// provider and returns draft questions for review. Nothing is persisted until
// the drafts are saved explicitly.
func GenerateQuestions(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}

	sourceText := c.FormValue("text")
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read upload"})
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read upload"})
		}
		sourceText = string(data)
	}
	if strings.TrimSpace(sourceText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Provide source text or a text file"})
	}

	singleCount, _ := strconv.Atoi(c.FormValue("singleCount", "5"))
	multipleCount, _ := strconv.Atoi(c.FormValue("multipleCount", "0"))
	if singleCount < 0 || multipleCount < 0 || singleCount+multipleCount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question counts"})
	}

	cfg, err := services.ResolveAIConfig(competitionID)
	if err != nil {
		if errors.Is(err, services.ErrNoAPIKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No AI API key configured. Set one in your profile settings."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve AI settings"})
	}

	questions, err := services.GenerateQuestions(c.Context(), cfg, sourceText, singleCount, multipleCount)
	if err != nil {
		log.Printf("🔥 AI generation failed for competition %s: %v", competitionID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "AI generation failed: " + err.Error()})
	}

	return c.JSON(fiber.Map{"questions": questions})
}

type SaveGeneratedRequest struct {
	Questions []services.GeneratedQuestion `json:"questions" validate:"required,min=1,dive"`
}

// SaveGeneratedQuestions persists reviewed AI drafts into the question bank.
func SaveGeneratedQuestions(c *fiber.Ctx) error {
	competitionID := c.Params("competitionId")

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Competition not found"})
	}

	var req SaveGeneratedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No questions to save"})
	}

	rows := make([]models.Question, 0, len(req.Questions))
	for _, g := range req.Questions {
		q := g.ToQuestion(&competitionID)
		if q.Content == "" || q.Answer == "" || len(q.Options) < 2 {
			continue
		}
		rows = append(rows, q)
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No valid questions to save"})
	}

	if err := database.DB.Create(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save questions"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"saved": len(rows)})
}

type AISettingsRequest struct {
	APIKey  *string `json:"apiKey"`
	BaseURL *string `json:"baseUrl"`
	Model   *string `json:"model"`
}

// GetAISettings returns the current user's AI provider settings with the key
// masked.
func GetAISettings(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	maskedKey := ""
	if user.AIAPIKey != nil && *user.AIAPIKey != "" {
		key := *user.AIAPIKey
		if len(key) > 8 {
			maskedKey = key[:4] + "****" + key[len(key)-4:]
		} else {
			maskedKey = "****"
		}
	}

	baseURL := ""
	if user.AIBaseURL != nil {
		baseURL = *user.AIBaseURL
	}

	return c.JSON(fiber.Map{
		"apiKey":  maskedKey,
		"baseUrl": baseURL,
		"model":   user.AIModel,
	})
}

// UpdateAISettings saves the current user's AI provider settings.
func UpdateAISettings(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req AISettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.APIKey != nil {
		updates["ai_api_key"] = *req.APIKey
	}
	if req.BaseURL != nil {
		updates["ai_base_url"] = *req.BaseURL
	}
	if req.Model != nil && *req.Model != "" {
		updates["ai_model"] = *req.Model
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update AI settings"})
	}

	return c.JSON(fiber.Map{"message": "AI settings updated"})
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/handlers"
	"github.com/quizarena/backend/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/ai-settings", handlers.GetAISettings)
	profile.Put("/ai-settings", handlers.UpdateAISettings)
}

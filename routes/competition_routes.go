package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/handlers"
	"github.com/quizarena/backend/middleware"
)

func CompetitionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	competitions := api.Group("/competitions", middleware.Protected(), middleware.ActiveRequired())
	competitions.Post("", handlers.CreateCompetition)
	competitions.Get("", handlers.ListCompetitions)
	competitions.Get("/:competitionId", handlers.GetCompetition)
	competitions.Put("/:competitionId", handlers.UpdateCompetition)
	competitions.Delete("/:competitionId", handlers.DeleteCompetition)

	settings := competitions.Group("/:competitionId/settings")
	settings.Get("", handlers.GetSettings)
	settings.Put("", handlers.SaveSettings)
	settings.Post("/certificate-background", handlers.UploadCertificateBackground)

	ai := competitions.Group("/:competitionId/ai")
	ai.Post("/generate", handlers.GenerateQuestions)
	ai.Post("/save", handlers.SaveGeneratedQuestions)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/handlers"
	"github.com/quizarena/backend/middleware"
)

func QuestionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	questions := api.Group("/questions", middleware.Protected(), middleware.ActiveRequired())
	questions.Post("", handlers.CreateQuestion)
	questions.Get("", handlers.ListQuestions)
	questions.Put("/:questionId", handlers.UpdateQuestion)
	questions.Delete("/all", handlers.DeleteAllQuestions)
	questions.Delete("/:questionId", handlers.DeleteQuestion)
	questions.Post("/import", handlers.ImportQuestions)
}

package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/handlers"
	"github.com/quizarena/backend/middleware"
)

// QuizRoutes covers the player-facing surface. Taking a quiz needs no account,
// only record cleanup is protected.
func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	quiz := api.Group("/quiz")
	quiz.Get("/:competitionId/settings", handlers.GetSettings)
	quiz.Get("/:competitionId/questions", handlers.StartQuiz)
	quiz.Post("/submit", handlers.SubmitQuiz)
	quiz.Get("/result", handlers.GetResult)

	sessions := api.Group("/sessions")
	sessions.Post("", handlers.StartSession)
	sessions.Get("/:token", handlers.GetSessionState)
	sessions.Post("/:token/select", handlers.SelectSessionOption)
	sessions.Post("/:token/next", handlers.AdvanceSession)
	sessions.Post("/:token/prev", handlers.RewindSession)
	sessions.Delete("/:token", handlers.AbandonSession)

	api.Get("/leaderboard", handlers.GetLeaderboard)
	api.Get("/history", handlers.GetHistory)
	api.Delete("/records", middleware.Protected(), middleware.ActiveRequired(), handlers.DeleteRecords)

	api.Get("/certificates/:recordId", handlers.GetCertificate)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/feed/:competitionId", websocket.New(handlers.ServeFeed))
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizarena/backend/handlers"
	"github.com/quizarena/backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.ListUsers)
	users.Put("/:userId/role", handlers.UpdateUserRole)
	users.Put("/:userId/password", handlers.ResetUserPassword)
	users.Delete("/:userId", handlers.DeleteUser)

	admin.Get("/competitions", handlers.AdminListCompetitions)
}

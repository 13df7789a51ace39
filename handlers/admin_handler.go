package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
)

type adminUserView struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Role             string `json:"role"`
	CompetitionCount int64  `json:"competitionCount"`
	CreatedAt        string `json:"createdAt"`
}

// ListUsers returns every account with its competition count for the admin
// console.
func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	views := make([]adminUserView, 0, len(users))
	for _, user := range users {
		var count int64
		database.DB.Model(&models.Competition{}).Where("created_by = ?", user.ID).Count(&count)
		views = append(views, adminUserView{
			ID:               user.ID.String(),
			Username:         user.Username,
			Role:             user.Role,
			CompetitionCount: count,
			CreatedAt:        user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return c.JSON(views)
}

// UpdateUserRole promotes or demotes an account. Admins cannot demote
// themselves, so there is always at least one admin left.
func UpdateUserRole(c *fiber.Ctx) error {
	type RoleRequest struct {
		Role string `json:"role" validate:"required,oneof=admin user pending"`
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	targetID := c.Params("userId")
	callerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if callerID.String() == targetID && req.Role != "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot change your own role"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Role = req.Role
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
	}

	return c.JSON(fiber.Map{"message": "Role updated", "role": user.Role})
}

// ResetUserPassword sets a new password for an account.
func ResetUserPassword(c *fiber.Ctx) error {
	type ResetRequest struct {
		Password string `json:"password" validate:"required,min=6"`
	}

	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user.Password = string(hashed)
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reset password"})
	}

	return c.JSON(fiber.Map{"message": "Password reset"})
}

// DeleteUser removes an account together with everything it owns.
func DeleteUser(c *fiber.Ctx) error {
	targetID := c.Params("userId")
	callerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if callerID.String() == targetID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete your own account"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var competitionIDs []string
	if err := database.DB.Model(&models.Competition{}).Where("created_by = ?", targetID).Pluck("id", &competitionIDs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}

	if len(competitionIDs) > 0 {
		if err := tx.Where("competition_id IN ?", competitionIDs).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete questions"})
		}
		if err := tx.Where("competition_id IN ?", competitionIDs).Delete(&models.QuizRecord{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete records"})
		}
		if err := tx.Where("competition_id IN ?", competitionIDs).Delete(&models.CompetitionSettings{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete settings"})
		}
		if err := tx.Where("id IN ?", competitionIDs).Delete(&models.Competition{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete competitions"})
		}
	}

	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction commit failed"})
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

package middleware

import (
	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StaffRequired rejects requests unless the authenticated user holds the
// admin or developer role. The role claim is checked first; the database row
// is consulted as the source of truth so a demoted user cannot ride out an
// old token.
func StaffRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		role := auth.CurrentRole(c)
		if role == models.RoleAdmin || role == models.RoleDeveloper {
			var user models.User
			if err := db.First(&user, "id = ?", userID).Error; err == nil && user.IsStaff() {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin or developer role required",
		})
	}
}

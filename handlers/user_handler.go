package handlers

import (
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
)

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	query := database.DB.Preload("Department").Preload("Program").Order("created_at DESC")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if dept := c.Query("department_id"); dept != "" {
		query = query.Where("department_id = ?", dept)
	}

	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

func GetUser(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.Preload("Department").Preload("Program").First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

func GetMe(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.Preload("Department").Preload("Program").First(&user, "id = ?", middleware.CurrentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

func UpdateUser(c *fiber.Ctx) error {
	type Request struct {
		FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=3"`
		Designation  *string `json:"designation,omitempty"`
		Phone        *string `json:"phone,omitempty"`
		Role         *string `json:"role,omitempty" validate:"omitempty,oneof=admin faculty cr principal"`
		DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid"`
		ProgramID    *string `json:"program_id,omitempty" validate:"omitempty,uuid"`
	}
	var req Request
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

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Designation != nil {
		user.Designation = req.Designation
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		user.DepartmentID = parseOptionalUUID(req.DepartmentID)
	}
	if req.ProgramID != nil {
		user.ProgramID = parseOptionalUUID(req.ProgramID)
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(user)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}
	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}

func AdminDeleteUser(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.User{}, "id = ?", c.Params("userId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

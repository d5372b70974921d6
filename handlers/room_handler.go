package handlers

import (
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
)

type RoomRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=50"`
	Building *string `json:"building,omitempty"`
	Capacity int     `json:"capacity" validate:"omitempty,min=1"`
	RoomType string  `json:"room_type" validate:"omitempty,oneof=classroom lab office auditorium"`
}

func CreateRoom(c *fiber.Ctx) error {
	var req RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	room := models.Room{Name: req.Name, Building: req.Building, Capacity: req.Capacity, RoomType: req.RoomType}
	if room.Capacity == 0 {
		room.Capacity = 40
	}
	if room.RoomType == "" {
		room.RoomType = "classroom"
	}

	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Room already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func ListRooms(c *fiber.Ctx) error {
	var rooms []models.Room
	query := database.DB.Order("name ASC")
	if roomType := c.Query("room_type"); roomType != "" {
		query = query.Where("room_type = ?", roomType)
	}
	if err := query.Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch rooms"})
	}
	return c.JSON(rooms)
}

func UpdateRoom(c *fiber.Ctx) error {
	var req RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var room models.Room
	if err := database.DB.First(&room, "id = ?", c.Params("roomId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	room.Name = req.Name
	room.Building = req.Building
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if req.RoomType != "" {
		room.RoomType = req.RoomType
	}

	if err := database.DB.Save(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update room"})
	}
	return c.JSON(room)
}

func DeleteRoom(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Room{}, "id = ?", c.Params("roomId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete room"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}
	return c.JSON(fiber.Map{"message": "Room deleted"})
}

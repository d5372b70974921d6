package handlers

import (
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TimetableRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	RoomID    string `json:"room_id" validate:"required,uuid"`
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

func CreateTimetableEntry(c *fiber.Ctx) error {
	var req TimetableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.EndTime <= req.StartTime {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}

	// reject a double-booked room for the same weekday and overlapping span
	var clash int64
	database.DB.Model(&models.TimetableEntry{}).
		Where("room_id = ? AND day_of_week = ? AND start_time < ? AND end_time > ?",
			roomID, req.DayOfWeek, req.EndTime, req.StartTime).
		Count(&clash)
	if clash > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Room is already booked in that slot"})
	}

	entry := models.TimetableEntry{
		CourseID:  courseID,
		RoomID:    roomID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create timetable entry"})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func ListTimetable(c *fiber.Ctx) error {
	var entries []models.TimetableEntry
	query := database.DB.Preload("Course").Preload("Course.Program").Preload("Course.Faculty").Preload("Room").
		Order("day_of_week ASC, start_time ASC")

	if course := c.Query("course_id"); course != "" {
		query = query.Where("course_id = ?", course)
	}
	if room := c.Query("room_id"); room != "" {
		query = query.Where("room_id = ?", room)
	}
	if day := c.Query("day_of_week"); day != "" {
		query = query.Where("day_of_week = ?", day)
	}

	if err := query.Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch timetable"})
	}
	return c.JSON(entries)
}

func DeleteTimetableEntry(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.TimetableEntry{}, "id = ?", c.Params("entryId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete timetable entry"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Timetable entry not found"})
	}
	return c.JSON(fiber.Map{"message": "Timetable entry deleted"})
}

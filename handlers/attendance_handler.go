package handlers

import (
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AttendanceRequest struct {
	TimetableEntryID string  `json:"timetable_entry_id" validate:"required,uuid"`
	ClassDate        string  `json:"class_date" validate:"required,datetime=2006-01-02"`
	Status           string  `json:"status" validate:"required,oneof=held cancelled faculty_absent"`
	Remarks          *string `json:"remarks,omitempty"`
}

// MarkAttendance records whether a scheduled class actually happened.
// CR/GR students file these against the timetable; one record per class per
// day.
func MarkAttendance(c *fiber.Ctx) error {
	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entryID, err := uuid.Parse(req.TimetableEntryID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid timetable entry id"})
	}
	markedBy, err := uuid.Parse(middleware.CurrentUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	classDate, _ := time.Parse("2006-01-02", req.ClassDate)

	var existing int64
	database.DB.Model(&models.AttendanceRecord{}).
		Where("timetable_entry_id = ? AND class_date = ?", entryID, classDate).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Attendance already marked for this class"})
	}

	record := models.AttendanceRecord{
		TimetableEntryID: entryID,
		MarkedByID:       markedBy,
		ClassDate:        classDate,
		Status:           req.Status,
		Remarks:          req.Remarks,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark attendance"})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func ListAttendance(c *fiber.Ctx) error {
	var records []models.AttendanceRecord
	query := database.DB.Preload("TimetableEntry").Preload("TimetableEntry.Course").Preload("MarkedBy").
		Order("class_date DESC")

	if entry := c.Query("timetable_entry_id"); entry != "" {
		query = query.Where("timetable_entry_id = ?", entry)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("class_date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("class_date <= ?", t)
		}
	}

	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(records)
}

func UpdateAttendance(c *fiber.Ctx) error {
	type Request struct {
		Status  string  `json:"status" validate:"required,oneof=held cancelled faculty_absent"`
		Remarks *string `json:"remarks,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.AttendanceRecord
	if err := database.DB.First(&record, "id = ?", c.Params("recordId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance record not found"})
	}

	record.Status = req.Status
	record.Remarks = req.Remarks
	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance"})
	}
	return c.JSON(record)
}

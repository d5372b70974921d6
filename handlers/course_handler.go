package handlers

import (
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseRequest struct {
	ProgramID   string  `json:"program_id" validate:"required,uuid"`
	FacultyID   *string `json:"faculty_id,omitempty" validate:"omitempty,uuid"`
	Title       string  `json:"title" validate:"required,min=3"`
	Code        string  `json:"code" validate:"required,min=3,max=20"`
	CreditHours int     `json:"credit_hours" validate:"omitempty,min=1,max=6"`
	Semester    int     `json:"semester" validate:"omitempty,min=1,max=12"`
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	course := models.Course{
		ProgramID:   programID,
		FacultyID:   parseOptionalUUID(req.FacultyID),
		Title:       req.Title,
		Code:        req.Code,
		CreditHours: req.CreditHours,
		Semester:    req.Semester,
	}
	if course.CreditHours == 0 {
		course.CreditHours = 3
	}
	if course.Semester == 0 {
		course.Semester = 1
	}

	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Course already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	query := database.DB.Preload("Program").Preload("Faculty").Order("code ASC")

	if program := c.Query("program_id"); program != "" {
		query = query.Where("program_id = ?", program)
	}
	if faculty := c.Query("faculty_id"); faculty != "" {
		query = query.Where("faculty_id = ?", faculty)
	}

	if err := query.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch courses"})
	}
	return c.JSON(courses)
}

func UpdateCourse(c *fiber.Ctx) error {
	type Request struct {
		FacultyID   *string `json:"faculty_id,omitempty" validate:"omitempty,uuid"`
		Title       *string `json:"title,omitempty" validate:"omitempty,min=3"`
		CreditHours *int    `json:"credit_hours,omitempty" validate:"omitempty,min=1,max=6"`
		Semester    *int    `json:"semester,omitempty" validate:"omitempty,min=1,max=12"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", c.Params("courseId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	if req.FacultyID != nil {
		course.FacultyID = parseOptionalUUID(req.FacultyID)
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.CreditHours != nil {
		course.CreditHours = *req.CreditHours
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Course{}, "id = ?", c.Params("courseId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(fiber.Map{"message": "Course deleted"})
}

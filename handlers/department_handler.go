package handlers

import (
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DepartmentRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Code     string  `json:"code" validate:"required,min=2,max=10"`
	Building *string `json:"building,omitempty"`
}

func CreateDepartment(c *fiber.Ctx) error {
	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dept := models.Department{Name: req.Name, Code: req.Code, Building: req.Building}
	if err := database.DB.Create(&dept).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Department already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(dept)
}

func ListDepartments(c *fiber.Ctx) error {
	var depts []models.Department
	if err := database.DB.Order("name ASC").Find(&depts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch departments"})
	}
	return c.JSON(depts)
}

func UpdateDepartment(c *fiber.Ctx) error {
	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var dept models.Department
	if err := database.DB.First(&dept, "id = ?", c.Params("departmentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
	}

	dept.Name = req.Name
	dept.Code = req.Code
	dept.Building = req.Building
	if err := database.DB.Save(&dept).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update department"})
	}
	return c.JSON(dept)
}

func DeleteDepartment(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Department{}, "id = ?", c.Params("departmentId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete department"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
	}
	return c.JSON(fiber.Map{"message": "Department deleted"})
}

type ProgramRequest struct {
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,min=2"`
	Code         string `json:"code" validate:"required,min=2,max=20"`
	Semesters    int    `json:"semesters" validate:"omitempty,min=1,max=12"`
}

func CreateProgram(c *fiber.Ctx) error {
	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid department id"})
	}

	semesters := req.Semesters
	if semesters == 0 {
		semesters = 8
	}

	program := models.Program{DepartmentID: deptID, Name: req.Name, Code: req.Code, Semesters: semesters}
	if err := database.DB.Create(&program).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Program already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(program)
}

func ListPrograms(c *fiber.Ctx) error {
	var programs []models.Program
	query := database.DB.Preload("Department").Order("name ASC")
	if dept := c.Query("department_id"); dept != "" {
		query = query.Where("department_id = ?", dept)
	}
	if err := query.Find(&programs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch programs"})
	}
	return c.JSON(programs)
}

func UpdateProgram(c *fiber.Ctx) error {
	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var program models.Program
	if err := database.DB.First(&program, "id = ?", c.Params("programId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
	}

	if deptID, err := uuid.Parse(req.DepartmentID); err == nil {
		program.DepartmentID = deptID
	}
	program.Name = req.Name
	program.Code = req.Code
	if req.Semesters > 0 {
		program.Semesters = req.Semesters
	}
	if err := database.DB.Save(&program).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update program"})
	}
	return c.JSON(program)
}

func DeleteProgram(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Program{}, "id = ?", c.Params("programId"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete program"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
	}
	return c.JSON(fiber.Map{"message": "Program deleted"})
}

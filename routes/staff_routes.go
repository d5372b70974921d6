package routes

import (
	"github.com/MishaalFatima/facultytracker-sub000/handlers"
	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

// StaffRoutes is the read surface every signed-in role shares: directory,
// timetables and class attendance.
func StaffRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected(), middleware.StaffRequired())

	api.Get("/me", handlers.GetMe)
	api.Get("/departments", handlers.ListDepartments)
	api.Get("/programs", handlers.ListPrograms)
	api.Get("/courses", handlers.ListCourses)
	api.Get("/rooms", handlers.ListRooms)
	api.Get("/timetable", handlers.ListTimetable)
	api.Get("/attendance", handlers.ListAttendance)

	attendance := api.Group("/attendance", middleware.CRRequired())
	attendance.Post("", handlers.MarkAttendance)
	attendance.Put("/:recordId", handlers.UpdateAttendance)
}

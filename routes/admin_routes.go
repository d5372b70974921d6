package routes

import (
	"github.com/MishaalFatima/facultytracker-sub000/handlers"
	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Post("", handlers.RegisterUser)
	users.Get("", handlers.GetAllUsers)
	users.Get("/:userId", handlers.GetUser)
	users.Put("/:userId", handlers.UpdateUser)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	departments := admin.Group("/departments")
	departments.Post("", handlers.CreateDepartment)
	departments.Put("/:departmentId", handlers.UpdateDepartment)
	departments.Delete("/:departmentId", handlers.DeleteDepartment)

	programs := admin.Group("/programs")
	programs.Post("", handlers.CreateProgram)
	programs.Put("/:programId", handlers.UpdateProgram)
	programs.Delete("/:programId", handlers.DeleteProgram)

	courses := admin.Group("/courses")
	courses.Post("", handlers.CreateCourse)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeleteCourse)

	rooms := admin.Group("/rooms")
	rooms.Post("", handlers.CreateRoom)
	rooms.Put("/:roomId", handlers.UpdateRoom)
	rooms.Delete("/:roomId", handlers.DeleteRoom)

	timetable := admin.Group("/timetable")
	timetable.Post("", handlers.CreateTimetableEntry)
	timetable.Delete("/:entryId", handlers.DeleteTimetableEntry)
}

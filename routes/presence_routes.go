package routes

import (
	"github.com/MishaalFatima/facultytracker-sub000/handlers"
	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	ws "github.com/MishaalFatima/facultytracker-sub000/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func PresenceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tracker := api.Group("/presence", middleware.Protected())
	tracker.Post("/start", middleware.FacultyRequired(), handlers.StartPresence)
	tracker.Post("/sample", middleware.FacultyRequired(), handlers.ReportLocation)
	tracker.Post("/challenge-response", middleware.FacultyRequired(), handlers.ChallengeResponse)
	tracker.Post("/signout", middleware.FacultyRequired(), handlers.SignOutPresence)

	tracker.Get("/status/:facultyId", middleware.StaffRequired(), handlers.PresenceStatus)
	tracker.Get("/intervals/:facultyId", middleware.StaffRequired(), handlers.PresenceIntervals)

	// Device and dashboard live connections. The device socket receives
	// challenge notifications; dashboard sockets receive presence events.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:userId", websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{
			UserID:    conn.Params("userId"),
			Dashboard: conn.Query("dashboard") == "true",
			Conn:      conn,
		}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

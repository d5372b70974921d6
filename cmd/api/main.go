package main

import (
	"log"
	"time"

	config "github.com/MishaalFatima/facultytracker-sub000/configs"
	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/docstore"
	"github.com/MishaalFatima/facultytracker-sub000/handlers"
	"github.com/MishaalFatima/facultytracker-sub000/jobs"
	"github.com/MishaalFatima/facultytracker-sub000/notifications"
	"github.com/MishaalFatima/facultytracker-sub000/presence"
	"github.com/MishaalFatima/facultytracker-sub000/routes"
	ws "github.com/MishaalFatima/facultytracker-sub000/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	fence := presence.Geofence{
		Center: presence.Coordinates{
			Lat: config.ConfigFloat("CAMPUS_LAT", 31.4504),
			Lon: config.ConfigFloat("CAMPUS_LON", 73.1350),
		},
		RadiusDeg: config.ConfigFloat("CAMPUS_RADIUS_DEG", 0.0045),
	}

	intervals := presence.NewIntervalLog(docstore.NewPostgres(database.DB))
	manager := presence.NewManager(presence.ManagerConfig{
		Fence:     fence,
		Intervals: intervals,
		NewNotifier: func(userID string) presence.NotificationScheduler {
			return ws.NewChallengeNotifier(userID)
		},
		SamplePeriod:    config.ConfigDuration("PRESENCE_SAMPLE_PERIOD", presence.DefaultSamplePeriod),
		ChallengePeriod: config.ConfigDuration("PRESENCE_CHALLENGE_PERIOD", presence.DefaultChallengePeriod),
		OnStateChange: func(userID string, prev, next presence.State) {
			select {
			case ws.Broadcast <- &ws.PresenceEvent{UserID: userID, Prev: string(prev), Next: string(next)}:
			default:
				log.Printf("Presence event for %s dropped: broadcast queue full", userID)
			}
		},
	})
	defer manager.Shutdown()

	handlers.InitPresence(manager, intervals)
	jobs.Init(intervals, manager)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.CloseStaleAvailability)
	c.AddFunc("0 6 * * *", jobs.SendAvailabilityDigest)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Faculty Tracker",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.AdminRoutes(app)
	routes.StaffRoutes(app)
	routes.PresenceRoutes(app)

	go ws.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

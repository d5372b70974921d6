package handlers

import (
	"errors"

	"github.com/MishaalFatima/facultytracker-sub000/middleware"
	"github.com/MishaalFatima/facultytracker-sub000/presence"
	"github.com/gofiber/fiber/v2"
)

var (
	presenceManager   *presence.Manager
	presenceIntervals *presence.IntervalLog
)

// InitPresence hands the handlers their tracker registry and audit log.
// Called once from main before routes are registered.
func InitPresence(m *presence.Manager, log *presence.IntervalLog) {
	presenceManager = m
	presenceIntervals = log
}

// StartPresence begins location tracking for the signed-in faculty member.
func StartPresence(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}
	presenceManager.StartSession(userID)
	return c.JSON(fiber.Map{"message": "Presence tracking started"})
}

// ReportLocation ingests one device fix. The device posts these on its own
// cadence; the tracker samples the freshest fix on its 5-second tick.
func ReportLocation(c *fiber.Ctx) error {
	type Request struct {
		Lat              float64 `json:"lat" validate:"min=-90,max=90"`
		Lon              float64 `json:"lon" validate:"min=-180,max=180"`
		PermissionDenied bool    `json:"permission_denied"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := middleware.CurrentUserID(c)

	var err error
	if req.PermissionDenied {
		err = presenceManager.ReportPermissionDenied(userID)
	} else {
		err = presenceManager.ReportSample(userID, presence.Coordinates{Lat: req.Lat, Lon: req.Lon})
	}
	if errors.Is(err, presence.ErrNotAuthenticated) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No active presence session"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record sample"})
	}
	return c.JSON(fiber.Map{"message": "Sample recorded"})
}

// ChallengeResponse receives the biometric/passcode outcome from the device.
func ChallengeResponse(c *fiber.Ctx) error {
	type Request struct {
		Result string `json:"result" validate:"required,oneof=success failure unsupported"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := presenceManager.ChallengeResponse(middleware.CurrentUserID(c), presence.ChallengeResult(req.Result))
	if errors.Is(err, presence.ErrNotAuthenticated) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No active presence session"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record response"})
	}
	return c.JSON(fiber.Map{"message": "Response recorded"})
}

// SignOutPresence closes the availability trail and ends the session.
func SignOutPresence(c *fiber.Ctx) error {
	err := presenceManager.SignOut(c.Context(), middleware.CurrentUserID(c))
	if errors.Is(err, presence.ErrNotAuthenticated) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No active presence session"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to close presence session"})
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// PresenceStatus reports a faculty member's live state for dashboards.
func PresenceStatus(c *fiber.Ctx) error {
	facultyID := c.Params("facultyId")
	state, tracked := presenceManager.State(facultyID)
	return c.JSON(fiber.Map{
		"faculty_id": facultyID,
		"state":      state,
		"tracked":    tracked,
	})
}

// PresenceIntervals returns the availability audit trail, newest first.
func PresenceIntervals(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	intervals, err := presenceIntervals.History(c.Context(), c.Params("facultyId"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch intervals"})
	}
	return c.JSON(intervals)
}

package tracking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	Reading
	Error string `json:"error"`
}

func RegisterRoutes(r fiber.Router, tracker *Tracker) {
	r.Post("/start", func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		fix := Fix{Reading: req.Reading}
		if req.Error != "" {
			fix.Err = ParseLocationError(req.Error)
		}

		status, err := tracker.Start(c.Context(), fix)
		switch {
		case errors.Is(err, ErrAlreadyTracking):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case IsLocationError(err):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(status)
	})

	r.Post("/points", func(c *fiber.Ctx) error {
		var req Reading
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		progress, err := tracker.AddReading(c.Context(), req)
		if errors.Is(err, ErrNotTracking) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(progress)
	})

	r.Post("/stop", func(c *fiber.Ctx) error {
		rec, err := tracker.Stop(c.Context())
		if errors.Is(err, ErrNotTracking) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if rec == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(tracker.Status())
	})
}

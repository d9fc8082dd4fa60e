package commute

import (
	"time"

	"backend-ecocommute/internal/emission"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *Store) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(store.All())
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var req RecordInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Distance < 0 || req.Duration < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "distance and duration must not be negative")
		}
		if req.TransportMode != "" {
			if _, ok := emission.ParseMode(req.TransportMode); !ok {
				return fiber.NewError(fiber.StatusBadRequest, "unknown transport mode")
			}
		}
		rec := NewRecord(req, store.Preferences(), time.Now())
		if err := store.Append(c.Context(), rec); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		if err := store.Clear(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func RegisterPreferenceRoutes(r fiber.Router, store *Store) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(store.Preferences())
	})

	r.Patch("/", func(c *fiber.Ctx) error {
		var body struct {
			TransportMode       *string  `json:"transportMode"`
			AvoidTolls          *bool    `json:"avoidTolls"`
			MaxTimeIncrease     *float64 `json:"maxTimeIncrease"`
			EcoFriendlyPriority *bool    `json:"ecoFriendlyPriority"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		patch := PreferencesPatch{
			AvoidTolls:          body.AvoidTolls,
			MaxTimeIncrease:     body.MaxTimeIncrease,
			EcoFriendlyPriority: body.EcoFriendlyPriority,
		}
		if body.TransportMode != nil {
			mode, ok := emission.ParseMode(*body.TransportMode)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "unknown transport mode")
			}
			patch.TransportMode = &mode
		}
		if patch.MaxTimeIncrease != nil && *patch.MaxTimeIncrease < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "maxTimeIncrease must not be negative")
		}

		prefs, err := store.UpdatePreferences(c.Context(), patch)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(prefs)
	})
}

package insights

import (
	"time"

	"backend-ecocommute/internal/commute"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *commute.Store, loc *time.Location) {
	r.Get("/", func(c *fiber.Ctx) error {
		period, ok := ParsePeriod(c.Query("period", string(Month)))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "period must be week, month or year")
		}
		return c.JSON(Compute(store.All(), period, time.Now(), loc))
	})

	r.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(BuildDashboard(store.All(), time.Now()))
	})
}

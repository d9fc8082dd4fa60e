package route

import (
	"fmt"

	"backend-ecocommute/internal/commute"

	"github.com/gofiber/fiber/v2"
)

// LocationFunc reports the last known position, if any.
type LocationFunc func() (commute.Coordinate, bool)

func RegisterRoutes(r fiber.Router, planner *Planner, store *commute.Store, locate LocationFunc) {
	r.Post("/", func(c *fiber.Ctx) error {
		var body struct {
			Origin      string `json:"origin"`
			Destination string `json:"destination"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Origin == "" && locate != nil {
			if here, ok := locate(); ok {
				body.Origin = fmt.Sprintf("%.4f, %.4f", here.Lat, here.Lng)
			}
		}

		q := Query{
			Origin:              body.Origin,
			Destination:         body.Destination,
			EcoFriendlyPriority: store.Preferences().EcoFriendlyPriority,
		}
		options, err := planner.Plan(c.Context(), q)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if options == nil {
			options = []Option{}
		}
		return c.JSON(options)
	})

	r.Get("/latest", func(c *fiber.Ctx) error {
		return c.JSON(planner.Latest())
	})
}

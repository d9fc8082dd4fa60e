package report

import (
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/insights"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *commute.Store, sink Sink, loc *time.Location) {
	if sink == nil {
		sink = NopSink{}
	}

	r.Get("/:period", func(c *fiber.Ctx) error {
		period, ok := insights.ParsePeriod(c.Params("period"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "period must be week, month or year")
		}

		rep := Build(store.All(), period, time.Now(), loc)
		body := Render(rep)
		name := FileName(period)
		if err := sink.Export(c.Context(), name, body); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Attachment(name)
		return c.Send(body)
	})
}

package network

import "github.com/gofiber/fiber/v2"

type statusView struct {
	Status
	Bandwidth string `json:"bandwidth"`
}

func RegisterRoutes(r fiber.Router, m *Monitor) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(statusView{Status: m.Current(), Bandwidth: m.BandwidthClass()})
	})

	r.Put("/", func(c *fiber.Ctx) error {
		var body struct {
			Online        *bool   `json:"online"`
			Type          string  `json:"type"`
			EffectiveType string  `json:"effectiveType"`
			Downlink      float64 `json:"downlink"`
			RTT           float64 `json:"rtt"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		online := true
		if body.Online != nil {
			online = *body.Online
		}
		s := m.Update(Status{
			Online:        online,
			Type:          body.Type,
			EffectiveType: body.EffectiveType,
			Downlink:      body.Downlink,
			RTT:           body.RTT,
		})
		return c.JSON(statusView{Status: s, Bandwidth: bandwidthClass(s.EffectiveType)})
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/billing"
)

// UpgradeRequest represents the payload for the mocked checkout
type UpgradeRequest struct {
	Method string `json:"method"`
	Coupon string `json:"coupon"`
}

func (h *Handler) Pricing(c *fiber.Ctx) error {
	user := currentSession(c).User()
	return c.JSON(fiber.Map{
		"quote":        billing.NewQuote(c.Query("coupon")),
		"referralLink": billing.ReferralLink(user.ID),
	})
}

// Upgrade confirms the mocked payment and unlocks unlimited analyses.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	var req UpgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	method, err := billing.ParseMethod(req.Method)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "method must be pix or card")
	}

	quote := billing.NewQuote(req.Coupon)
	user := currentSession(c).Upgrade()
	h.logger.Info(c.UserContext(), "user upgraded", "user_id", user.ID, "method", method, "total", quote.Total.String())

	return c.JSON(fiber.Map{
		"user":  user,
		"quote": quote,
	})
}

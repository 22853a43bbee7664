package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/auth"
	"finanzago-go-be/billing"
	"finanzago-go-be/models"
)

const (
	providerGoogle = "google"
	googleEmail    = "google@example.com"
	googleName     = "Google User"
)

// LoginRequest represents the payload for the fabricated login
type LoginRequest struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// LoginResponse carries the session token and the user
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login fabricates a user for the given e-mail (or the Google account) and
// opens its session. No password is checked.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.fabricateUser(req)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Valid email required")
	}

	s, err := h.sessions.Open(c.UserContext(), user)
	if err != nil {
		h.logger.Error(c.UserContext(), "open session", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to open session")
	}

	token, err := auth.GenerateToken(user.ID, []byte(h.opts.SecretKey), h.opts.TokenValidity)
	if err != nil {
		h.logger.Error(c.UserContext(), "generate token", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to open session")
	}

	return c.JSON(LoginResponse{Token: token, User: s.User()})
}

func (h *Handler) fabricateUser(req LoginRequest) (models.User, error) {
	if strings.EqualFold(req.Provider, providerGoogle) {
		return models.User{
			ID:          auth.UserIDForEmail(googleEmail),
			Name:        googleName,
			Email:       googleEmail,
			Entitlement: models.Metered(h.opts.FreeCredits),
		}, nil
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return models.User{}, err
	}
	name, _, _ := strings.Cut(addr.Address, "@")
	return models.User{
		ID:          auth.UserIDForEmail(addr.Address),
		Name:        name,
		Email:       addr.Address,
		Entitlement: models.Metered(h.opts.FreeCredits),
	}, nil
}

// Logout discards the session; stored history stays.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.sessions.Close(currentSession(c).User().ID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user := currentSession(c).User()
	return c.JSON(fiber.Map{
		"user":         user,
		"referralLink": billing.ReferralLink(user.ID),
	})
}

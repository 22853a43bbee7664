package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/store"
)

// SettingsRequest represents a partial settings update
type SettingsRequest struct {
	Theme       *store.Theme       `json:"theme"`
	ToggleTheme bool               `json:"toggleTheme"`
	Preferences *store.Preferences `json:"preferences"`
}

// LogoRequest represents a custom logo as a data URL
type LogoRequest struct {
	DataURL string `json:"dataUrl"`
}

// GenerateLogoRequest names the brand the logo is drawn for
type GenerateLogoRequest struct {
	Prompt string `json:"prompt"`
}

const defaultBrandName = "FinanzaGo.Ai"

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	snapshot, err := h.settings.Load(c.UserContext())
	if err != nil {
		h.logger.Error(c.UserContext(), "load settings", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	return c.JSON(snapshot)
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	ctx := c.UserContext()

	var err error
	switch {
	case req.ToggleTheme:
		_, err = h.settings.ToggleTheme(ctx)
	case req.Theme != nil:
		err = h.settings.SetTheme(ctx, *req.Theme)
	}
	if errors.Is(err, store.ErrInvalidTheme) {
		return fail(c, fiber.StatusBadRequest, "theme must be light or dark")
	}
	if err == nil && req.Preferences != nil {
		err = h.settings.SetPreferences(ctx, *req.Preferences)
	}
	if err != nil {
		h.logger.Error(ctx, "save settings", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to save settings")
	}

	return h.GetSettings(c)
}

func (h *Handler) GetLogo(c *fiber.Ctx) error {
	logo, ok, err := h.settings.Logo(c.UserContext())
	if err != nil {
		h.logger.Error(c.UserContext(), "load logo", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to load logo")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, "No custom logo")
	}
	return c.JSON(LogoRequest{DataURL: logo})
}

func (h *Handler) SetLogo(c *fiber.Ctx) error {
	var req LogoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !strings.HasPrefix(req.DataURL, "data:image/") {
		return fail(c, fiber.StatusBadRequest, "dataUrl must be an image data URL")
	}

	if err := h.settings.SetLogo(c.UserContext(), req.DataURL); err != nil {
		h.logger.Error(c.UserContext(), "save logo", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to save logo")
	}
	return c.JSON(req)
}

func (h *Handler) ClearLogo(c *fiber.Ctx) error {
	if err := h.settings.ClearLogo(c.UserContext()); err != nil {
		h.logger.Error(c.UserContext(), "clear logo", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to clear logo")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GenerateLogo returns a preview; saving it is a separate PUT.
func (h *Handler) GenerateLogo(c *fiber.Ctx) error {
	var req GenerateLogoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = defaultBrandName
	}

	img, err := h.gateway.GenerateBrandAsset(c.UserContext(), prompt)
	if err != nil {
		return h.gatewayFailure(c, "brand asset", err, "Failed to generate logo")
	}
	return c.JSON(LogoRequest{DataURL: img.DataURL()})
}

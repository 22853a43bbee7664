// Package handlers exposes the service over HTTP with fiber.
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/analysis"
	"finanzago-go-be/auth"
	"finanzago-go-be/gateway"
	"finanzago-go-be/logging"
	"finanzago-go-be/store"
)

const sessionLocal = "session"

// Options carries the token and signup settings.
type Options struct {
	SecretKey     string
	TokenValidity time.Duration
	FreeCredits   int
}

// Handler serves the /api/v1 routes.
type Handler struct {
	sessions *analysis.Registry
	settings *store.Settings
	gateway  gateway.Gateway
	logger   logging.Logger
	opts     Options
}

func New(sessions *analysis.Registry, settings *store.Settings, gw gateway.Gateway, logger logging.Logger, opts Options) *Handler {
	return &Handler{
		sessions: sessions,
		settings: settings,
		gateway:  gw,
		logger:   logger.With("component", "handlers"),
		opts:     opts,
	}
}

// Register mounts every route on api.
func (h *Handler) Register(api fiber.Router) {
	// Health Check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Post("/session", h.Login)
	api.Get("/settings", h.GetSettings)
	api.Get("/branding/logo", h.GetLogo)

	private := api.Group("", h.RequireSession)

	private.Delete("/session", h.Logout)
	private.Get("/me", h.Me)

	private.Post("/uploads", h.StageUploads)
	private.Get("/uploads", h.ListUploads)
	private.Delete("/uploads/:id", h.RemoveUpload)

	private.Post("/analyses", h.StartAnalysis)
	private.Post("/analyses/bank-link", h.LinkBank)
	private.Get("/analyses/current", h.CurrentAnalysis)
	private.Delete("/analyses/current", h.ClearCurrent)
	private.Get("/analyses/current/transactions", h.ListTransactions)
	private.Post("/analyses/current/speech", h.SpeakSummary)

	private.Get("/history", h.ListHistory)
	private.Post("/history/:id/select", h.SelectHistory)
	private.Delete("/history/:id", h.DeleteHistory)

	private.Get("/pricing", h.Pricing)
	private.Post("/upgrade", h.Upgrade)

	private.Post("/chat", h.Chat)
	private.Post("/speech", h.Speak)

	private.Put("/settings", h.UpdateSettings)
	private.Put("/branding/logo", h.SetLogo)
	private.Delete("/branding/logo", h.ClearLogo)
	private.Post("/branding/logo/generate", h.GenerateLogo)
}

// RequireSession resolves the bearer token to an open session.
func (h *Handler) RequireSession(c *fiber.Ctx) error {
	token, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Bearer token required")
	}

	userID, err := auth.GetUserIDFromToken(token, []byte(h.opts.SecretKey))
	if err != nil {
		h.logger.Debug(c.UserContext(), "rejected token", "error", err)
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	s, ok := h.sessions.Get(userID)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Session not found, log in again")
	}

	c.Locals(sessionLocal, s)
	return c.Next()
}

func currentSession(c *fiber.Ctx) *analysis.Session {
	s, _ := c.Locals(sessionLocal).(*analysis.Session)
	return s
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// gatewayFailure logs the cause and answers with a generic message.
func (h *Handler) gatewayFailure(c *fiber.Ctx, op string, err error, msg string) error {
	h.logger.Error(c.UserContext(), "gateway call failed", "op", op, "error", err)
	if errors.Is(err, gateway.ErrGateway) {
		return fail(c, fiber.StatusBadGateway, msg)
	}
	return fail(c, fiber.StatusInternalServerError, msg)
}

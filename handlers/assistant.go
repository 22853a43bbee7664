package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/gateway"
)

// ChatRequest represents a support chat message and the turns before it
type ChatRequest struct {
	Message string             `json:"message"`
	History []gateway.ChatTurn `json:"history"`
}

// SpeechRequest represents text to be read out loud
type SpeechRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return fail(c, fiber.StatusBadRequest, "Message required")
	}

	reply, err := h.gateway.Chat(c.UserContext(), req.Message, req.History)
	if err != nil {
		return h.gatewayFailure(c, "chat", err, "Sorry, the assistant is unavailable right now.")
	}
	return c.JSON(reply)
}

func (h *Handler) Speak(c *fiber.Ctx) error {
	var req SpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fail(c, fiber.StatusBadRequest, "Text required")
	}
	return h.speak(c, req.Text)
}

func (h *Handler) speak(c *fiber.Ctx, text string) error {
	audio, err := h.gateway.SynthesizeSpeech(c.UserContext(), text)
	if err != nil {
		return h.gatewayFailure(c, "speech", err, "Failed to generate audio")
	}
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(audio)
}

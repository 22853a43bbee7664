package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/analysis"
	"finanzago-go-be/models"
)

// HistoryEntry is a history item flagged when it is the analysis on screen
type HistoryEntry struct {
	models.AnalysisHistoryItem
	Current bool `json:"current"`
}

func (h *Handler) ListHistory(c *fiber.Ctx) error {
	s := currentSession(c)
	currentID := s.CurrentHistoryID()

	items := s.History()
	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, HistoryEntry{AnalysisHistoryItem: item, Current: item.ID == currentID})
	}
	return c.JSON(fiber.Map{"history": entries})
}

// SelectHistory shows a stored analysis again without calling the gateway.
func (h *Handler) SelectHistory(c *fiber.Ctx) error {
	s := currentSession(c)
	current, err := s.SelectHistory(c.Params("id"))
	if errors.Is(err, analysis.ErrHistoryItemNotFound) {
		return fail(c, fiber.StatusNotFound, "History item not found")
	}
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to select history item")
	}

	return c.JSON(AnalysisResponse{
		HistoryID: s.CurrentHistoryID(),
		Analysis:  current,
		Balance:   current.Balance(),
		User:      s.User(),
	})
}

// DeleteHistory removes a history item. Unknown ids are not an error.
func (h *Handler) DeleteHistory(c *fiber.Ctx) error {
	removed, err := currentSession(c).DeleteHistoryItem(c.UserContext(), c.Params("id"))
	if err != nil {
		h.logger.Error(c.UserContext(), "delete history item", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to delete history item")
	}
	return c.JSON(fiber.Map{"deleted": removed})
}

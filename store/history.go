package store

import (
	"context"
	"encoding/json"
	"fmt"

	"finanzago-go-be/models"
)

// History persists each user's analysis history as one JSON array.
type History struct {
	kv KV
}

func NewHistory(kv KV) *History {
	return &History{kv: kv}
}

// Load returns the stored history, newest first. A missing key is an empty list.
func (h *History) Load(ctx context.Context, userID string) ([]models.AnalysisHistoryItem, error) {
	raw, ok, err := h.kv.Get(ctx, HistoryKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || raw == "" {
		return []models.AnalysisHistoryItem{}, nil
	}

	var items []models.AnalysisHistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode history of %s: %w", userID, err)
	}
	if items == nil {
		items = []models.AnalysisHistoryItem{}
	}
	return items, nil
}

// Save overwrites the stored history with items.
func (h *History) Save(ctx context.Context, userID string, items []models.AnalysisHistoryItem) error {
	if items == nil {
		items = []models.AnalysisHistoryItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.kv.Set(ctx, HistoryKey(userID), string(raw)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

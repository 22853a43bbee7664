// Package store mirrors session state into the key-value backend: global
// settings (theme, logo, preferences) and per-user analysis history.
package store

import (
	"context"
	"errors"
)

// Storage keys.
const (
	KeyTheme             = "theme"
	KeyCustomLogo        = "custom_logo"
	KeyPrefNotifications = "pref_notifications"
	KeyPrefSound         = "pref_sound"
	historyKeyPrefix     = "history_"
)

var ErrInvalidTheme = errors.New("invalid theme")

// KV is the backend contract; database.SQLiteStore and database.GormStore
// satisfy it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// HistoryKey is the key holding the history list of userID.
func HistoryKey(userID string) string {
	return historyKeyPrefix + userID
}

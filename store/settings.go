package store

import (
	"context"
	"fmt"
	"strconv"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Preferences are the notification and sound toggles. Both default to on.
type Preferences struct {
	Notifications bool `json:"notifications"`
	Sound         bool `json:"sound"`
}

// Snapshot is everything the client needs at session start.
type Snapshot struct {
	Theme       Theme       `json:"theme"`
	CustomLogo  string      `json:"customLogo,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Settings reads and writes the global settings keys.
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings {
	return &Settings{kv: kv}
}

// Load reads every setting once.
func (s *Settings) Load(ctx context.Context) (Snapshot, error) {
	theme, err := s.Theme(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	logo, _, err := s.Logo(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Theme: theme, CustomLogo: logo, Preferences: prefs}, nil
}

// Theme returns the stored theme, falling back to light for absent or
// unknown values.
func (s *Settings) Theme(ctx context.Context) (Theme, error) {
	value, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	if !ok || !Theme(value).Valid() {
		return ThemeLight, nil
	}
	return Theme(value), nil
}

func (s *Settings) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.kv.Set(ctx, KeyTheme, string(theme))
}

// ToggleTheme flips light and dark and returns the new theme.
func (s *Settings) ToggleTheme(ctx context.Context) (Theme, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

// Logo returns the custom logo data URL, if any.
func (s *Settings) Logo(ctx context.Context) (string, bool, error) {
	value, ok, err := s.kv.Get(ctx, KeyCustomLogo)
	if err != nil {
		return "", false, fmt.Errorf("load logo: %w", err)
	}
	return value, ok && value != "", nil
}

// SetLogo stores the logo; an empty value removes it.
func (s *Settings) SetLogo(ctx context.Context, dataURL string) error {
	if dataURL == "" {
		return s.ClearLogo(ctx)
	}
	return s.kv.Set(ctx, KeyCustomLogo, dataURL)
}

func (s *Settings) ClearLogo(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyCustomLogo)
}

// Preferences treats anything but a stored "false" as enabled.
func (s *Settings) Preferences(ctx context.Context) (Preferences, error) {
	notifications, err := s.flag(ctx, KeyPrefNotifications)
	if err != nil {
		return Preferences{}, err
	}
	sound, err := s.flag(ctx, KeyPrefSound)
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{Notifications: notifications, Sound: sound}, nil
}

func (s *Settings) SetPreferences(ctx context.Context, p Preferences) error {
	if err := s.kv.Set(ctx, KeyPrefNotifications, strconv.FormatBool(p.Notifications)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyPrefSound, strconv.FormatBool(p.Sound))
}

func (s *Settings) flag(ctx context.Context, key string) (bool, error) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return !ok || value != "false", nil
}

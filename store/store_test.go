package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzago-go-be/database"
	"finanzago-go-be/models"
)

func newKV(t *testing.T) *database.SQLiteStore {
	t.Helper()
	kv, err := database.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("db down")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("db down") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("db down") }

func sampleHistory() []models.AnalysisHistoryItem {
	return []models.AnalysisHistoryItem{
		{
			ID:        "k3j9x0a1b",
			Timestamp: "19/10/2026, 14:03:11",
			Analysis: models.FinancialAnalysis{
				Summary:       "Spending under control.",
				TotalIncome:   5200,
				TotalExpenses: 3100.75,
				TopCategories: []models.CategoryTotal{{Category: "Housing", Amount: 1500}, {Category: "Food", Amount: 800.25}},
				Suggestions:   []string{"Review subscriptions"},
				Transactions: []models.Transaction{
					{Date: "2026-10-01", Description: "Salary", Amount: 5200, Category: "Income", Type: models.TransactionTypeIncome},
					{Date: "2026-10-03", Description: "Rent", Amount: 1500, Category: "Housing", Type: models.TransactionTypeExpense},
				},
			},
		},
		{
			ID:        "a0b1c2d3e",
			Timestamp: "18/10/2026, 09:00:00",
			Analysis: models.FinancialAnalysis{
				Summary:       "First look.",
				TopCategories: []models.CategoryTotal{},
				Suggestions:   []string{},
				Transactions:  []models.Transaction{},
			},
		},
	}
}

func TestHistory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(newKV(t))
	want := sampleHistory()

	require.NoError(t, h.Save(ctx, "user-1", want))
	got, err := h.Load(ctx, "user-1")
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(want, got, cmpopts.EquateEmpty()))
}

func TestHistory_LoadMissingIsEmpty(t *testing.T) {
	got, err := NewHistory(newKV(t)).Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistory_KeyedByUser(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	h := NewHistory(kv)

	require.NoError(t, h.Save(ctx, "a", sampleHistory()[:1]))
	require.NoError(t, h.Save(ctx, "b", nil))

	a, err := h.Load(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, a, 1)

	b, err := h.Load(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, b)

	raw, ok, err := kv.Get(ctx, "history_b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestHistory_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	require.NoError(t, kv.Set(ctx, HistoryKey("u"), "{not json"))

	_, err := NewHistory(kv).Load(ctx, "u")
	assert.Error(t, err)
}

func TestHistory_BackendErrors(t *testing.T) {
	h := NewHistory(failingKV{})
	_, err := h.Load(context.Background(), "u")
	assert.ErrorContains(t, err, "db down")
	assert.ErrorContains(t, h.Save(context.Background(), "u", sampleHistory()), "db down")
}

func TestSettings_Defaults(t *testing.T) {
	snap, err := NewSettings(newKV(t)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Snapshot{Theme: ThemeLight, Preferences: Preferences{Notifications: true, Sound: true}}, snap)
}

func TestSettings_Theme(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	s := NewSettings(kv)

	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	theme, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	next, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	assert.ErrorIs(t, s.SetTheme(ctx, "sepia"), ErrInvalidTheme)

	require.NoError(t, kv.Set(ctx, KeyTheme, "garbage"))
	theme, err = s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestSettings_Logo(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(newKV(t))

	_, ok, err := s.Logo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetLogo(ctx, "data:image/png;base64,AA=="))
	logo, ok, err := s.Logo(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AA==", logo)

	require.NoError(t, s.SetLogo(ctx, ""))
	_, ok, err = s.Logo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettings_Preferences(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	s := NewSettings(kv)

	require.NoError(t, s.SetPreferences(ctx, Preferences{Notifications: false, Sound: true}))
	prefs, err := s.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{Notifications: false, Sound: true}, prefs)

	raw, _, err := kv.Get(ctx, KeyPrefNotifications)
	require.NoError(t, err)
	assert.Equal(t, "false", raw)
}

func TestSettings_BackendErrors(t *testing.T) {
	_, err := NewSettings(failingKV{}).Load(context.Background())
	assert.ErrorContains(t, err, "db down")
}

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzago-go-be/models"
)

const validAnalysis = `{
	"summary": "Healthy month.",
	"totalExpenses": 1200.5,
	"totalIncome": 3000,
	"topCategories": [{"category": "Food", "amount": 450}],
	"suggestions": ["Cancel unused streaming"],
	"transactions": [
		{"date": "2026-01-02", "description": "Salary", "amount": 3000, "category": "Income", "type": "income"},
		{"date": "2026-01-05", "description": "Market", "amount": 450, "category": "Food", "type": "expense"}
	]
}`

func TestDecodeAnalysis_Valid(t *testing.T) {
	a, err := decodeAnalysis(validAnalysis)
	require.NoError(t, err)

	assert.Equal(t, "Healthy month.", a.Summary)
	assert.Equal(t, 3000.0, a.TotalIncome)
	assert.Equal(t, 1200.5, a.TotalExpenses)
	assert.Equal(t, []models.CategoryTotal{{Category: "Food", Amount: 450}}, a.TopCategories)
	require.Len(t, a.Transactions, 2)
	assert.Equal(t, models.TransactionTypeIncome, a.Transactions[0].Type)
}

func TestDecodeAnalysis_StripsMarkdownFences(t *testing.T) {
	a, err := decodeAnalysis("```json\n" + validAnalysis + "\n```")
	require.NoError(t, err)
	assert.Len(t, a.Transactions, 2)
}

func TestDecodeAnalysis_EmptyArraysAreAccepted(t *testing.T) {
	a, err := decodeAnalysis(`{"summary":"","totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[],"transactions":[]}`)
	require.NoError(t, err)
	assert.Empty(t, a.Transactions)
	assert.NotNil(t, a.Transactions)
}

func TestDecodeAnalysis_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I cannot help with that"},
		{"missing transactions", `{"summary":"","totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[]}`},
		{"missing summary", `{"totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[],"transactions":[]}`},
		{"null totals", `{"summary":"","totalExpenses":null,"totalIncome":0,"topCategories":[],"suggestions":[],"transactions":[]}`},
		{"bad type", `{"summary":"","totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[],
			"transactions":[{"date":"d","description":"x","amount":1,"category":"c","type":"transfer"}]}`},
		{"incomplete transaction", `{"summary":"","totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[],
			"transactions":[{"date":"d","amount":1,"category":"c","type":"expense"}]}`},
		{"wrong field type", `{"summary":1,"totalExpenses":0,"totalIncome":0,"topCategories":[],"suggestions":[],"transactions":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAnalysis(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGateway)
		})
	}
}

func TestImage_DataURL(t *testing.T) {
	img := Image{Data: []byte("png"), MIMEType: "image/png"}
	assert.Equal(t, "data:image/png;base64,cG5n", img.DataURL())

	img.MIMEType = ""
	assert.Equal(t, "data:image/png;base64,cG5n", img.DataURL())
}

func TestErrorsWrapGatewayError(t *testing.T) {
	assert.ErrorIs(t, ErrNoImage, ErrGateway)
	assert.ErrorIs(t, ErrNoAudio, ErrGateway)
}

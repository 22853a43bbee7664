package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"finanzago-go-be/models"
)

// cleanJSON strips the markdown fences models like to wrap JSON in.
func cleanJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// wireAnalysis uses pointers so that absent fields can be told apart from
// zero values.
type wireAnalysis struct {
	Summary       *string                 `json:"summary"`
	TotalExpenses *float64                `json:"totalExpenses"`
	TotalIncome   *float64                `json:"totalIncome"`
	TopCategories *[]models.CategoryTotal `json:"topCategories"`
	Suggestions   *[]string               `json:"suggestions"`
	Transactions  *[]wireTransaction      `json:"transactions"`
}

type wireTransaction struct {
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type"`
}

// decodeAnalysis parses the model output into a FinancialAnalysis. Every
// top-level field and every transaction field is mandatory.
func decodeAnalysis(raw string) (*models.FinancialAnalysis, error) {
	var w wireAnalysis
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &w); err != nil {
		return nil, fmt.Errorf("%w: decode analysis: %w", ErrGateway, err)
	}

	missing := []string{}
	if w.Summary == nil {
		missing = append(missing, "summary")
	}
	if w.TotalExpenses == nil {
		missing = append(missing, "totalExpenses")
	}
	if w.TotalIncome == nil {
		missing = append(missing, "totalIncome")
	}
	if w.TopCategories == nil {
		missing = append(missing, "topCategories")
	}
	if w.Suggestions == nil {
		missing = append(missing, "suggestions")
	}
	if w.Transactions == nil {
		missing = append(missing, "transactions")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: analysis missing %s", ErrGateway, strings.Join(missing, ", "))
	}

	txns := make([]models.Transaction, 0, len(*w.Transactions))
	for i, t := range *w.Transactions {
		if t.Date == nil || t.Description == nil || t.Amount == nil || t.Category == nil || t.Type == nil {
			return nil, fmt.Errorf("%w: transaction %d is incomplete", ErrGateway, i)
		}
		typ := models.TransactionType(*t.Type)
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: transaction %d has type %q", ErrGateway, i, *t.Type)
		}
		txns = append(txns, models.Transaction{
			Date:        *t.Date,
			Description: *t.Description,
			Amount:      *t.Amount,
			Category:    *t.Category,
			Type:        typ,
		})
	}

	return &models.FinancialAnalysis{
		Summary:       *w.Summary,
		TotalExpenses: *w.TotalExpenses,
		TotalIncome:   *w.TotalIncome,
		TopCategories: *w.TopCategories,
		Suggestions:   *w.Suggestions,
		Transactions:  txns,
	}, nil
}

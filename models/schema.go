package models

import (
	"time"
)

// TransactionType tags a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// User represents the fabricated account of the active session.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Entitlement Entitlement `json:"-"`
}

// IsPro reports whether the user has unlimited analyses.
func (u User) IsPro() bool {
	return u.Entitlement.IsUnlimited()
}

// Transaction represents a single statement line extracted by the gateway.
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
}

// CategoryTotal is one slice of the spending breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// FinancialAnalysis is the report returned by the gateway. It is treated as a
// value and never mutated after it has been received.
type FinancialAnalysis struct {
	Summary       string          `json:"summary"`
	TotalIncome   float64         `json:"totalIncome"`
	TotalExpenses float64         `json:"totalExpenses"`
	TopCategories []CategoryTotal `json:"topCategories"`
	Suggestions   []string        `json:"suggestions"`
	Transactions  []Transaction   `json:"transactions"`
}

// Balance is income minus expenses.
func (a FinancialAnalysis) Balance() float64 {
	return a.TotalIncome - a.TotalExpenses
}

// AnalysisHistoryItem is a stored snapshot of one past analysis.
type AnalysisHistoryItem struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Analysis  FinancialAnalysis `json:"analysis"`
}

// StagedFile is an upload waiting to be submitted. Data is serialized as base64.
type StagedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Setting is a single key-value row of the persistence shim.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

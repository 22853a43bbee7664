// Package transactions projects the transaction list of an analysis for
// display: filtering, single-key sorting and fixed-size pagination.
package transactions

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"finanzago-go-be/models"
)

// PageSize is the number of transactions per page.
const PageSize = 10

type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByDescription SortKey = "description"
	SortByAmount      SortKey = "amount"
	SortByCategory    SortKey = "category"
	SortByType        SortKey = "type"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// Sort is a single-key ordering.
type Sort struct {
	Key       SortKey
	Direction Direction
}

// ParseSort builds a Sort from query values. An empty key means no sorting
// (nil); an empty direction means ascending.
func ParseSort(key, direction string) (*Sort, error) {
	if key == "" {
		return nil, nil
	}
	k := SortKey(strings.ToLower(key))
	switch k {
	case SortByDate, SortByDescription, SortByAmount, SortByCategory, SortByType:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	d := Direction(strings.ToLower(direction))
	switch d {
	case "":
		d = Asc
	case Asc, Desc:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}
	return &Sort{Key: k, Direction: d}, nil
}

func compareBy(key SortKey, a, b models.Transaction) int {
	switch key {
	case SortByAmount:
		return cmp.Compare(a.Amount, b.Amount)
	case SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case SortByCategory:
		return strings.Compare(a.Category, b.Category)
	case SortByType:
		return strings.Compare(string(a.Type), string(b.Type))
	default:
		return strings.Compare(a.Date, b.Date)
	}
}

// Sorted returns a sorted copy of txns. Equal keys keep their input order.
// A nil sort returns the input order.
func Sorted(txns []models.Transaction, s *Sort) []models.Transaction {
	out := slices.Clone(txns)
	if s == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		c := compareBy(s.Key, a, b)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

// Filter narrows the list. Zero fields match everything.
type Filter struct {
	Type     models.TransactionType
	Category string
	Query    string
}

func (f Filter) match(t models.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// Apply returns the matching transactions in input order.
func (f Filter) Apply(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Page is one page of transactions.
type Page struct {
	Items      []models.Transaction `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
	TotalItems int                  `json:"totalItems"`
}

// TotalPages is ceil(count / size).
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate returns the 1-based page of txns. Requests outside
// [1, TotalPages] are clamped; an empty list yields an empty page 1.
func Paginate(txns []models.Transaction, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	total := TotalPages(len(txns), size)

	page = max(page, 1)
	page = min(page, max(total, 1))

	start := (page - 1) * size
	end := min(start+size, len(txns))
	items := []models.Transaction{}
	if start < end {
		items = slices.Clone(txns[start:end])
	}

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalItems: len(txns),
	}
}

// Query bundles one dashboard table request.
type Query struct {
	Filter Filter
	Sort   *Sort
	Page   int
}

// View filters, sorts and paginates in that order.
func View(txns []models.Transaction, q Query) Page {
	return Paginate(Sorted(q.Filter.Apply(txns), q.Sort), q.Page, PageSize)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/analysis"
	"finanzago-go-be/gateway"
	"finanzago-go-be/models"
	"finanzago-go-be/transactions"
	"finanzago-go-be/uploader"
)

// AnalysisRequest represents the payload for starting an analysis
type AnalysisRequest struct {
	Text string `json:"text"`
}

// AnalysisResponse is the current analysis as shown on the dashboard
type AnalysisResponse struct {
	HistoryID string                    `json:"historyId,omitempty"`
	Timestamp string                    `json:"timestamp,omitempty"`
	Analysis  *models.FinancialAnalysis `json:"analysis"`
	Balance   float64                   `json:"balance"`
	User      models.User               `json:"user"`
}

// StartAnalysis submits the pasted text together with the staged files.
func (h *Handler) StartAnalysis(c *fiber.Ctx) error {
	var req AnalysisRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	s := currentSession(c)
	if err := s.CheckCredits(); err != nil {
		return h.analysisFailure(c, err)
	}

	files := s.Uploads().Files()
	payload, err := uploader.Compose(req.Text, files)
	if err != nil {
		return h.analysisFailure(c, err)
	}
	return h.runAnalysis(c, s, payload, files...)
}

// LinkBank runs an analysis over the simulated bank connection data.
func (h *Handler) LinkBank(c *fiber.Ctx) error {
	s := currentSession(c)
	if err := s.CheckCredits(); err != nil {
		return h.analysisFailure(c, err)
	}

	payload, err := uploader.Compose(uploader.BankLinkText, nil)
	if err != nil {
		return h.analysisFailure(c, err)
	}
	return h.runAnalysis(c, s, payload)
}

func (h *Handler) runAnalysis(c *fiber.Ctx, s *analysis.Session, payload []gateway.Part, sent ...models.StagedFile) error {
	item, err := s.StartAnalysis(c.UserContext(), payload, sent...)
	if err != nil {
		return h.analysisFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(AnalysisResponse{
		HistoryID: item.ID,
		Timestamp: item.Timestamp,
		Analysis:  &item.Analysis,
		Balance:   item.Analysis.Balance(),
		User:      s.User(),
	})
}

func (h *Handler) analysisFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, analysis.ErrUpgradeRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "No credits left. Upgrade to Pro to keep analysing.",
			"upgrade": true,
		})
	case errors.Is(err, uploader.ErrTextTooLong):
		return fail(c, fiber.StatusBadRequest, "Text too long. Reduce it to 50,000 characters or upload a file.")
	case errors.Is(err, analysis.ErrEmptyPayload):
		return fail(c, fiber.StatusBadRequest, "Paste some text or stage at least one file")
	case errors.Is(err, analysis.ErrAnalysisInProgress):
		return fail(c, fiber.StatusConflict, "An analysis is already running")
	default:
		// already logged by the session
		return fail(c, fiber.StatusBadGateway, "Failed to analyse the data. Check the files and try again.")
	}
}

func (h *Handler) CurrentAnalysis(c *fiber.Ctx) error {
	s := currentSession(c)
	current := s.Current()
	if current == nil {
		return fail(c, fiber.StatusNotFound, "No analysis selected")
	}

	return c.JSON(AnalysisResponse{
		HistoryID: s.CurrentHistoryID(),
		Analysis:  current,
		Balance:   current.Balance(),
		User:      s.User(),
	})
}

func (h *Handler) ClearCurrent(c *fiber.Ctx) error {
	currentSession(c).ClearCurrent()
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTransactions returns one page of the current analysis' transactions.
// Query: page, sort, dir, type, category, q.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	current := currentSession(c).Current()
	if current == nil {
		return fail(c, fiber.StatusNotFound, "No analysis selected")
	}

	sort, err := transactions.ParseSort(c.Query("sort"), c.Query("dir"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	txType := models.TransactionType(c.Query("type"))
	if txType != "" && !txType.Valid() {
		return fail(c, fiber.StatusBadRequest, "type must be expense or income")
	}

	page := transactions.View(current.Transactions, transactions.Query{
		Filter: transactions.Filter{
			Type:     txType,
			Category: c.Query("category"),
			Query:    c.Query("q"),
		},
		Sort: sort,
		Page: c.QueryInt("page", 1),
	})
	return c.JSON(page)
}

// SpeakSummary reads the current summary out loud.
func (h *Handler) SpeakSummary(c *fiber.Ctx) error {
	current := currentSession(c).Current()
	if current == nil {
		return fail(c, fiber.StatusNotFound, "No analysis selected")
	}
	return h.speak(c, current.Summary)
}

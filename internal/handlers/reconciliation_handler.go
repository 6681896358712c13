package handler

import (
	"errors"
	"net/http"
	"time"

	"bank-reconciliation-engine/internal/models"
	service "bank-reconciliation-engine/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// respondError maps the engine error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var condErr *service.InvalidRuleConditionError
	switch {
	case errors.Is(err, service.ErrAlreadyMatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoSuchMatch), errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &condErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, err := uuid.Parse(c.Query("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return uuid.Nil, false
	}
	return clientID, true
}

// parseFilters reads the optional account and ISO-8601 date query params.
func parseFilters(c *gin.Context) (service.Filters, bool) {
	f := service.Filters{BankAccountID: c.Query("account")}

	for param, dst := range map[string]**time.Time{
		"start_date": &f.StartDate,
		"end_date":   &f.EndDate,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + ", expected YYYY-MM-DD"})
			return f, false
		}
		*dst = &parsed
	}
	return f, true
}

func (h *ReconciliationHandler) GetUnmatched(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	result, err := h.service.GetUnmatched(clientID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReconciliationHandler) GetMatched(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	items, err := h.service.GetMatched(clientID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched_items": items})
}

func (h *ReconciliationHandler) Match(c *gin.Context) {
	var payload struct {
		ClientID          string  `json:"client_id"`
		BankTransactionID string  `json:"bank_transaction_id"`
		LedgerEntryID     string  `json:"ledger_entry_id"`
		MatchType         string  `json:"match_type"`
		MatchedBy         *string `json:"matched_by"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// rule and auto matches are produced by auto-match runs, not posted
	if payload.MatchType != "" && payload.MatchType != models.MatchTypeManual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match_type must be manual"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	transactionID, err := uuid.Parse(payload.BankTransactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bank_transaction_id"})
		return
	}
	entryID, err := uuid.Parse(payload.LedgerEntryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ledger_entry_id"})
		return
	}

	item, err := h.service.Match(clientID, transactionID, entryID, payload.MatchedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "matched", "matched_item": item})
}

func (h *ReconciliationHandler) Unmatch(c *gin.Context) {
	var payload struct {
		ClientID          string `json:"client_id"`
		BankTransactionID string `json:"bank_transaction_id"`
		LedgerEntryID     string `json:"ledger_entry_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	transactionID, err := uuid.Parse(payload.BankTransactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bank_transaction_id"})
		return
	}
	entryID, err := uuid.Parse(payload.LedgerEntryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ledger_entry_id"})
		return
	}

	if err := h.service.Unmatch(clientID, transactionID, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unmatched"})
}

func (h *ReconciliationHandler) AutoMatch(c *gin.Context) {
	var payload struct {
		ClientID  string `json:"client_id"`
		Account   string `json:"account"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}

	filters := service.Filters{BankAccountID: payload.Account}
	if payload.StartDate != "" {
		start, err := time.Parse("2006-01-02", payload.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filters.StartDate = &start
	}
	if payload.EndDate != "" {
		end, err := time.Parse("2006-01-02", payload.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		filters.EndDate = &end
	}

	result, err := h.service.AutoMatchBatch(clientID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReconciliationHandler) CreateTransaction(c *gin.Context) {
	var payload struct {
		ClientID        string `json:"client_id"`
		BankAccountID   string `json:"bank_account_id"`
		TransactionDate string `json:"transaction_date"`
		Description     string `json:"description"`
		Amount          string `json:"amount"`
		Currency        string `json:"currency"`
		KID             string `json:"kid"`
		Reference       string `json:"reference"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	date, err := time.Parse("2006-01-02", payload.TransactionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction_date, expected YYYY-MM-DD"})
		return
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	tx, err := h.service.CreateTransaction(clientID, payload.BankAccountID, date,
		payload.Description, amount, payload.Currency, payload.KID, payload.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction created", "transaction": tx})
}

func (h *ReconciliationHandler) CreateLedgerEntry(c *gin.Context) {
	var payload struct {
		ClientID       string `json:"client_id"`
		AccountingDate string `json:"accounting_date"`
		VoucherNumber  string `json:"voucher_number"`
		Description    string `json:"description"`
		Lines          []struct {
			AccountNumber string `json:"account_number"`
			AccountName   string `json:"account_name"`
			Debit         string `json:"debit"`
			Credit        string `json:"credit"`
		} `json:"lines"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}
	date, err := time.Parse("2006-01-02", payload.AccountingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accounting_date, expected YYYY-MM-DD"})
		return
	}
	if len(payload.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one ledger line is required"})
		return
	}

	lines := make([]models.LedgerLine, 0, len(payload.Lines))
	for _, raw := range payload.Lines {
		debit := decimal.Zero
		credit := decimal.Zero
		if raw.Debit != "" {
			if debit, err = decimal.NewFromString(raw.Debit); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid debit amount"})
				return
			}
		}
		if raw.Credit != "" {
			if credit, err = decimal.NewFromString(raw.Credit); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credit amount"})
				return
			}
		}
		lines = append(lines, models.LedgerLine{
			AccountNumber: raw.AccountNumber,
			AccountName:   raw.AccountName,
			Debit:         debit,
			Credit:        credit,
		})
	}

	entry, err := h.service.CreateLedgerEntry(clientID, date, payload.VoucherNumber, payload.Description, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ledger entry created", "entry": entry})
}

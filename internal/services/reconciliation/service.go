package reconciliation

import (
	"encoding/json"
	"errors"
	"time"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/repository"
	"bank-reconciliation-engine/internal/services/matching"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the match ledger: the only writer of transaction and entry
// statuses and of MatchedItem rows.
type Service struct {
	db              *gorm.DB
	transactionRepo *repository.BankTransactionRepository
	entryRepo       *repository.LedgerEntryRepository
	ruleRepo        *repository.MatchingRuleRepository
	matchRepo       *repository.MatchedItemRepository
	minConfidence   float64
}

func NewService(
	transactionRepo *repository.BankTransactionRepository,
	entryRepo *repository.LedgerEntryRepository,
	ruleRepo *repository.MatchingRuleRepository,
	matchRepo *repository.MatchedItemRepository,
	minConfidence float64,
) *Service {
	return &Service{
		db:              transactionRepo.DB(),
		transactionRepo: transactionRepo,
		entryRepo:       entryRepo,
		ruleRepo:        ruleRepo,
		matchRepo:       matchRepo,
		minConfidence:   minConfidence,
	}
}

// Filters narrows a listing or auto-match run to a bank account and/or a
// date window. The account filter applies to the bank side only.
type Filters struct {
	BankAccountID string
	StartDate     *time.Time
	EndDate       *time.Time
}

// Match records a manual pairing. The user asserts ground truth, so scoring
// is bypassed, confidence is 1.0 and both sides go to reviewed.
func (s *Service) Match(clientID, transactionID, entryID uuid.UUID, matchedBy *string) (*models.MatchedItem, error) {
	return s.commitMatch(clientID, transactionID, entryID, models.MatchTypeManual, nil, 1.0, matchedBy, nil)
}

// Unmatch removes the active match for a pair and reverts both statuses to
// unmatched, atomically.
func (s *Service) Unmatch(clientID, transactionID, entryID uuid.UUID) error {
	return s.db.Transaction(func(dbtx *gorm.DB) error {
		var item models.MatchedItem
		err := dbtx.First(&item,
			"client_id = ? AND bank_transaction_id = ? AND ledger_entry_id = ?",
			clientID, transactionID, entryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchMatch
		}
		if err != nil {
			return err
		}

		if err := dbtx.Delete(&item).Error; err != nil {
			return err
		}
		if err := dbtx.Model(&models.BankTransaction{}).
			Where("id = ?", transactionID).
			Update("status", models.StatusUnmatched).Error; err != nil {
			return err
		}
		return dbtx.Model(&models.GeneralLedgerEntry{}).
			Where("id = ?", entryID).
			Update("status", models.StatusUnmatched).Error
	})
}

type AutoMatchError struct {
	BankTransactionID string `json:"bank_transaction_id"`
	LedgerEntryID     string `json:"ledger_entry_id"`
	Error             string `json:"error"`
}

type AutoMatchResult struct {
	MatchedCount   int                  `json:"matched_count"`
	UnmatchedCount int                  `json:"unmatched_count"`
	Matches        []models.MatchedItem `json:"matches"`
	Errors         []AutoMatchError     `json:"errors"`
}

// AutoMatchBatch runs rule evaluation, confidence scoring and conflict-free
// assignment over the currently unmatched transactions and entries of a
// client, then commits the accepted pairs. A pair losing a race to a
// concurrent manual match lands in Errors; the batch keeps going.
func (s *Service) AutoMatchBatch(clientID uuid.UUID, f Filters) (*AutoMatchResult, error) {
	// Rule/data snapshot for the whole run. A retried batch naturally skips
	// whatever a previous attempt already matched.
	rules, err := s.ruleRepo.ListEnabled(clientID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.ListUnmatched(clientID, f.BankAccountID, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListUnmatched(clientID, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	rulePtrs := make([]*models.MatchingRule, len(rules))
	for i := range rules {
		rulePtrs[i] = &rules[i]
	}
	entryPtrs := make([]*models.GeneralLedgerEntry, len(entries))
	for i := range entries {
		entryPtrs[i] = &entries[i]
	}

	var tuples []matching.Tuple
	for i := range transactions {
		tx := &transactions[i]

		hits := matching.Evaluate(tx, entryPtrs, rulePtrs)
		if len(hits) == 0 {
			// No rule claimed anything: fall back to confidence-only
			// candidates over every entry.
			for _, entry := range entryPtrs {
				parts := matching.ScoreParts(tx, entry)
				tuples = append(tuples, matching.Tuple{
					Transaction: tx,
					Entry:       entry,
					Confidence:  parts.Total(),
					Components:  parts,
				})
			}
			continue
		}

		for _, hit := range hits {
			parts := matching.ScoreParts(tx, hit.Entry)
			tuples = append(tuples, matching.Tuple{
				Transaction: tx,
				Entry:       hit.Entry,
				Rule:        hit.Rule,
				Confidence:  parts.Total(),
				Components:  parts,
			})
		}
	}

	assignment := matching.Resolve(tuples, s.minConfidence)

	result := &AutoMatchResult{
		Matches: []models.MatchedItem{},
		Errors:  []AutoMatchError{},
	}
	for _, tuple := range assignment.Accepted {
		matchType := models.MatchTypeAuto
		if tuple.Rule != nil {
			matchType = models.MatchTypeRule
		}

		item, err := s.commitMatch(
			clientID, tuple.Transaction.ID, tuple.Entry.ID,
			matchType, tuple.Rule, tuple.Confidence, nil, matchDetails(tuple),
		)
		if err != nil {
			result.Errors = append(result.Errors, AutoMatchError{
				BankTransactionID: tuple.Transaction.ID.String(),
				LedgerEntryID:     tuple.Entry.ID.String(),
				Error:             err.Error(),
			})
			continue
		}
		result.Matches = append(result.Matches, *item)
	}

	result.MatchedCount = len(result.Matches)
	result.UnmatchedCount = len(transactions) - result.MatchedCount
	return result, nil
}

// commitMatch inserts the MatchedItem and flips both statuses in one DB
// transaction. Both sides are claimed with a conditional update re-checking
// status = unmatched, so a concurrent manual match on either side turns
// into ErrAlreadyMatched instead of a double booking.
func (s *Service) commitMatch(
	clientID, transactionID, entryID uuid.UUID,
	matchType string,
	rule *models.MatchingRule,
	confidence float64,
	matchedBy *string,
	details datatypes.JSON,
) (*models.MatchedItem, error) {
	newStatus := models.StatusMatched
	if matchType == models.MatchTypeManual {
		newStatus = models.StatusReviewed
	}

	item := &models.MatchedItem{
		ID:                uuid.New(),
		ClientID:          clientID,
		BankTransactionID: transactionID,
		LedgerEntryID:     entryID,
		MatchType:         matchType,
		MatchDate:         time.Now(),
		MatchedBy:         matchedBy,
		Confidence:        confidence,
		MatchDetails:      details,
		CreatedAt:         time.Now(),
	}
	if rule != nil {
		ruleID := rule.ID
		item.RuleID = &ruleID
	}

	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		if err := claimStatus(dbtx, &models.BankTransaction{}, clientID, transactionID, newStatus); err != nil {
			return err
		}
		if err := claimStatus(dbtx, &models.GeneralLedgerEntry{}, clientID, entryID, newStatus); err != nil {
			return err
		}
		if err := dbtx.Create(item).Error; err != nil {
			return err
		}
		if rule != nil {
			return dbtx.Model(&models.MatchingRule{}).
				Where("id = ?", rule.ID).
				UpdateColumn("last_matched", gorm.Expr("last_matched + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// claimStatus flips one side from unmatched to the new status. Zero rows
// affected means the record is gone or someone else got there first.
func claimStatus(dbtx *gorm.DB, model interface{}, clientID, id uuid.UUID, newStatus string) error {
	res := dbtx.Model(model).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, models.StatusUnmatched).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := dbtx.Model(model).Where("id = ? AND client_id = ?", id, clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyMatched
	}
	return nil
}

func matchDetails(tuple matching.Tuple) datatypes.JSON {
	details := map[string]interface{}{
		"amount_score":      tuple.Components.Amount,
		"date_score":        tuple.Components.Date,
		"description_score": tuple.Components.Description,
		"confidence":        tuple.Confidence,
		"transaction_desc":  tuple.Transaction.Description,
		"entry_voucher":     tuple.Entry.VoucherNumber,
	}
	if tuple.Rule != nil {
		details["rule_id"] = tuple.Rule.ID.String()
		details["rule_name"] = tuple.Rule.Name
	}
	raw, _ := json.Marshal(details)
	return raw
}

type UnmatchedResult struct {
	BankTransactions []models.BankTransaction    `json:"bank_transactions"`
	LedgerEntries    []models.GeneralLedgerEntry `json:"ledger_entries"`
	Summary          Summary                     `json:"summary"`
}

// GetUnmatched lists both unmatched sides for a filter window together with
// a summary block for the reconciliation overview.
func (s *Service) GetUnmatched(clientID uuid.UUID, f Filters) (*UnmatchedResult, error) {
	transactions, err := s.transactionRepo.ListUnmatched(clientID, f.BankAccountID, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListUnmatched(clientID, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	matchedCount, err := s.matchRepo.CountByClient(clientID)
	if err != nil {
		return nil, err
	}
	return &UnmatchedResult{
		BankTransactions: transactions,
		LedgerEntries:    entries,
		Summary:          buildSummary(transactions, entries, matchedCount),
	}, nil
}

func (s *Service) GetMatched(clientID uuid.UUID, f Filters) ([]models.MatchedItem, error) {
	return s.matchRepo.ListByClient(clientID, f.BankAccountID, f.StartDate, f.EndDate)
}

// CreateTransaction inserts a single unmatched BankTransaction row.
func (s *Service) CreateTransaction(clientID uuid.UUID, account string, date time.Time, description string, amount decimal.Decimal, currency, kid, reference string) (*models.BankTransaction, error) {
	tx := &models.BankTransaction{
		ID:              uuid.New(),
		ClientID:        clientID,
		BankAccountID:   account,
		TransactionDate: date,
		Description:     description,
		Amount:          amount,
		Currency:        currency,
		KID:             kid,
		Reference:       reference,
		Status:          models.StatusUnmatched,
		CreatedAt:       time.Now(),
	}
	if err := s.transactionRepo.Create(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// CreateLedgerEntry inserts an unmatched GeneralLedgerEntry with its lines.
func (s *Service) CreateLedgerEntry(clientID uuid.UUID, date time.Time, voucherNumber, description string, lines []models.LedgerLine) (*models.GeneralLedgerEntry, error) {
	entry := &models.GeneralLedgerEntry{
		ID:             uuid.New(),
		ClientID:       clientID,
		AccountingDate: date,
		VoucherNumber:  voucherNumber,
		Description:    description,
		Status:         models.StatusUnmatched,
		CreatedAt:      time.Now(),
	}
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].EntryID = entry.ID
		lines[i].Position = i
	}
	entry.Lines = lines

	if err := s.entryRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

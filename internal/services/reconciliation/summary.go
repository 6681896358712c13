package reconciliation

import (
	"bank-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Summary is the overview block returned with the unmatched listing: how
// much money sits unreconciled on each side of the current filter window.
type Summary struct {
	UnmatchedTransactionCount int             `json:"unmatched_transaction_count"`
	UnmatchedTransactionSum   decimal.Decimal `json:"unmatched_transaction_sum"`
	UnmatchedEntryCount       int             `json:"unmatched_entry_count"`
	UnmatchedEntrySum         decimal.Decimal `json:"unmatched_entry_sum"`
	MatchedCount              int64           `json:"matched_count"`
}

func buildSummary(transactions []models.BankTransaction, entries []models.GeneralLedgerEntry, matchedCount int64) Summary {
	summary := Summary{
		UnmatchedTransactionCount: len(transactions),
		UnmatchedTransactionSum:   decimal.Zero,
		UnmatchedEntryCount:       len(entries),
		UnmatchedEntrySum:         decimal.Zero,
		MatchedCount:              matchedCount,
	}
	for i := range transactions {
		summary.UnmatchedTransactionSum = summary.UnmatchedTransactionSum.Add(transactions[i].Amount.Abs())
	}
	for i := range entries {
		summary.UnmatchedEntrySum = summary.UnmatchedEntrySum.Add(entries[i].NetAmount().Abs())
	}
	return summary
}

package matching

import (
	"strings"

	"bank-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Score weights. Additive, capped at 1.0.
const (
	amountWeight      = 0.4
	dateWeight        = 0.3
	descriptionWeight = 0.3

	dateDecayDays = 30
)

// amountEpsilon guards the relative-difference division against tiny bases.
var amountEpsilon = decimal.NewFromFloat(0.01)

// Score estimates how likely a transaction and ledger entry describe the
// same real-world event, independent of any rule. The three signals are
// independent and additive so an accountant can see exactly where a
// suggested match earned its confidence.
func Score(tx *models.BankTransaction, entry *models.GeneralLedgerEntry) float64 {
	parts := ScoreParts(tx, entry)
	return parts.Total()
}

// ScoreComponents is the per-signal breakdown persisted as match details.
type ScoreComponents struct {
	Amount      float64 `json:"amount_score"`
	Date        float64 `json:"date_score"`
	Description float64 `json:"description_score"`
}

func (s ScoreComponents) Total() float64 {
	total := s.Amount + s.Date + s.Description
	if total > 1.0 {
		total = 1.0
	}
	return total
}

func ScoreParts(tx *models.BankTransaction, entry *models.GeneralLedgerEntry) ScoreComponents {
	return ScoreComponents{
		Amount:      amountWeight * amountScore(tx.Amount, entry.NetAmount()),
		Date:        dateWeight * dateScore(tx, entry),
		Description: descriptionWeight * descriptionScore(tx.Description, entry.Description, entry.VoucherNumber),
	}
}

// amountScore compares absolute values; sign conventions between bank and
// ledger differ and are intentionally not compared.
func amountScore(txAmount, netAmount decimal.Decimal) float64 {
	txAbs := txAmount.Abs()
	netAbs := netAmount.Abs()

	if amountsEqual(txAbs, netAbs) {
		return 1.0
	}

	base := txAbs
	if base.LessThan(amountEpsilon) {
		base = amountEpsilon
	}
	relDiff, _ := txAbs.Sub(netAbs).Abs().Div(base).Float64()
	if relDiff >= 1.0 {
		return 0
	}
	return 1.0 - relDiff
}

// dateScore decays linearly to zero at 30 days apart.
func dateScore(tx *models.BankTransaction, entry *models.GeneralLedgerEntry) float64 {
	days := DaysApart(tx.TransactionDate, entry.AccountingDate)
	if days == 0 {
		return 1.0
	}
	if days >= dateDecayDays {
		return 0
	}
	return 1.0 - float64(days)/dateDecayDays
}

// descriptionScore is the token-overlap ratio between the transaction
// description and the entry's description plus voucher number:
// shared tokens over union tokens, case-insensitive.
func descriptionScore(txDescription, entryDescription, voucherNumber string) float64 {
	txTokens := tokenize(txDescription)
	entryTokens := tokenize(entryDescription + " " + voucherNumber)

	if len(txTokens) == 0 || len(entryTokens) == 0 {
		return 0
	}

	shared := 0
	union := len(txTokens)
	for tok := range entryTokens {
		if _, ok := txTokens[tok]; ok {
			shared++
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		tokens[field] = struct{}{}
	}
	return tokens
}

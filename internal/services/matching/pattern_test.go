package matching_test

import (
	"encoding/json"
	"testing"
	"time"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/services/matching"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRule(t *testing.T, ruleType string, conds models.RuleConditions, priority int) *models.MatchingRule {
	t.Helper()
	raw, err := json.Marshal(conds)
	require.NoError(t, err)
	return &models.MatchingRule{
		ID:         uuid.New(),
		RuleType:   ruleType,
		Name:       ruleType + " rule",
		Conditions: raw,
		Priority:   priority,
		Enabled:    true,
		CreatedAt:  time.Now(),
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func creditEntry(date time.Time, voucher, description, amount string) *models.GeneralLedgerEntry {
	credit, _ := decimal.NewFromString(amount)
	return &models.GeneralLedgerEntry{
		ID:             uuid.New(),
		AccountingDate: date,
		VoucherNumber:  voucher,
		Description:    description,
		Status:         models.StatusUnmatched,
		Lines: []models.LedgerLine{
			{ID: uuid.New(), AccountNumber: "1920", Debit: decimal.Zero, Credit: credit},
		},
	}
}

func TestMatchWildcard(t *testing.T) {
	t.Run("star matches any run of characters", func(t *testing.T) {
		assert.True(t, matching.MatchWildcard("INV-*", "INV-001", false))
		assert.True(t, matching.MatchWildcard("INV-*", "INV-", false))
		assert.True(t, matching.MatchWildcard("*42", "INV-42", false))
		assert.True(t, matching.MatchWildcard("INV*42", "INV-0042", false))
	})

	t.Run("pattern is anchored", func(t *testing.T) {
		assert.False(t, matching.MatchWildcard("INV-*", "XINV-001", false))
		assert.False(t, matching.MatchWildcard("42", "INV-42", false))
	})

	t.Run("case sensitivity is caller controlled", func(t *testing.T) {
		assert.False(t, matching.MatchWildcard("INV-*", "inv-001", false))
		assert.True(t, matching.MatchWildcard("INV-*", "inv-001", true))
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		assert.True(t, matching.MatchWildcard("A.B*", "A.B-1", false))
		assert.False(t, matching.MatchWildcard("A.B*", "AxB-1", false))
	})

	t.Run("empty pattern never matches", func(t *testing.T) {
		assert.False(t, matching.MatchWildcard("", "anything", false))
	})
}

func TestMatchesKIDRule(t *testing.T) {
	rule := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 50)
	entry := creditEntry(day(2026, 2, 10), "INV-42", "", "500.00")

	t.Run("matches transaction KID", func(t *testing.T) {
		tx := &models.BankTransaction{ID: uuid.New(), KID: "INV-42"}
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("falls back to reference when KID absent", func(t *testing.T) {
		tx := &models.BankTransaction{ID: uuid.New(), Reference: "INV-7"}
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("fails without KID and reference", func(t *testing.T) {
		tx := &models.BankTransaction{ID: uuid.New()}
		assert.False(t, matching.Matches(rule, tx, entry))
	})

	t.Run("KID matching is case-sensitive", func(t *testing.T) {
		tx := &models.BankTransaction{ID: uuid.New(), KID: "inv-42"}
		assert.False(t, matching.Matches(rule, tx, entry))
	})
}

func TestMatchesAmountRule(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New(), Amount: dec(t, "-500.00")}

	t.Run("entry net amount inside inclusive range", func(t *testing.T) {
		rule := newRule(t, models.RuleTypeAmount, models.RuleConditions{
			MinAmount: decPtr(t, "500.00"),
			MaxAmount: decPtr(t, "500.00"),
		}, 10)
		// credit entry nets to -500; comparison uses absolute value
		entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("unset max is unbounded", func(t *testing.T) {
		rule := newRule(t, models.RuleTypeAmount, models.RuleConditions{
			MinAmount: decPtr(t, "100.00"),
		}, 10)
		entry := creditEntry(day(2026, 2, 10), "V1", "", "99999.99")
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("below min fails", func(t *testing.T) {
		rule := newRule(t, models.RuleTypeAmount, models.RuleConditions{
			MinAmount: decPtr(t, "600.00"),
		}, 10)
		entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")
		assert.False(t, matching.Matches(rule, tx, entry))
	})

	t.Run("above max fails", func(t *testing.T) {
		rule := newRule(t, models.RuleTypeAmount, models.RuleConditions{
			MinAmount: decPtr(t, "0"),
			MaxAmount: decPtr(t, "499.99"),
		}, 10)
		entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")
		assert.False(t, matching.Matches(rule, tx, entry))
	})

	t.Run("missing min never matches", func(t *testing.T) {
		rule := newRule(t, models.RuleTypeAmount, models.RuleConditions{}, 10)
		entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")
		assert.False(t, matching.Matches(rule, tx, entry))
	})
}

func TestMatchesDescriptionRule(t *testing.T) {
	rule := newRule(t, models.RuleTypeDescription, models.RuleConditions{DescriptionPattern: "*husleie*"}, 10)
	entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")

	t.Run("wildcard match is case-insensitive", func(t *testing.T) {
		tx := &models.BankTransaction{ID: uuid.New(), Description: "Betaling HUSLEIE februar"}
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("no substring match without wildcards", func(t *testing.T) {
		anchored := newRule(t, models.RuleTypeDescription, models.RuleConditions{DescriptionPattern: "husleie"}, 10)
		tx := &models.BankTransaction{ID: uuid.New(), Description: "Betaling husleie februar"}
		assert.False(t, matching.Matches(anchored, tx, entry))
	})
}

func TestMatchesDateRangeRule(t *testing.T) {
	three := 3
	rule := newRule(t, models.RuleTypeDateRange, models.RuleConditions{MaxDaysDifference: &three}, 10)

	tx := &models.BankTransaction{ID: uuid.New(), TransactionDate: day(2026, 2, 10)}

	t.Run("inclusive boundary", func(t *testing.T) {
		entry := creditEntry(day(2026, 2, 13), "V1", "", "500.00")
		assert.True(t, matching.Matches(rule, tx, entry))
	})

	t.Run("outside range fails", func(t *testing.T) {
		entry := creditEntry(day(2026, 2, 14), "V1", "", "500.00")
		assert.False(t, matching.Matches(rule, tx, entry))
	})

	t.Run("direction does not matter", func(t *testing.T) {
		entry := creditEntry(day(2026, 2, 8), "V1", "", "500.00")
		assert.True(t, matching.Matches(rule, tx, entry))
	})
}

func TestDaysApart(t *testing.T) {
	assert.Equal(t, 0, matching.DaysApart(day(2026, 2, 10), day(2026, 2, 10)))
	assert.Equal(t, 3, matching.DaysApart(day(2026, 2, 10), day(2026, 2, 13)))
	assert.Equal(t, 3, matching.DaysApart(day(2026, 2, 13), day(2026, 2, 10)))
	// time-of-day is ignored
	assert.Equal(t, 1, matching.DaysApart(
		time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 2, 11, 0, 1, 0, 0, time.UTC),
	))
}

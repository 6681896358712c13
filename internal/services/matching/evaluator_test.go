package matching_test

import (
	"testing"
	"time"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/services/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFirstRuleClaimsEntry(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New(), KID: "INV-42", Amount: dec(t, "-500.00"), TransactionDate: day(2026, 2, 10)}
	entry := creditEntry(day(2026, 2, 10), "INV-42", "", "500.00")

	high := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 80)
	low := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 20)

	hits := matching.Evaluate(tx, []*models.GeneralLedgerEntry{entry}, []*models.MatchingRule{low, high})

	require.Len(t, hits, 1)
	assert.Equal(t, high.ID, hits[0].Rule.ID)
	assert.Equal(t, entry.ID, hits[0].Entry.ID)
}

func TestEvaluatePriorityTieBreaksOnCreationOrder(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New(), KID: "INV-42"}
	entry := creditEntry(day(2026, 2, 10), "INV-42", "", "500.00")

	older := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 50)
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 50)
	newer.CreatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	hits := matching.Evaluate(tx, []*models.GeneralLedgerEntry{entry}, []*models.MatchingRule{newer, older})

	require.Len(t, hits, 1)
	assert.Equal(t, older.ID, hits[0].Rule.ID)
}

func TestEvaluateDisabledRulesAreSkipped(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New(), KID: "INV-42"}
	entry := creditEntry(day(2026, 2, 10), "INV-42", "", "500.00")

	disabled := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "INV-*"}, 90)
	disabled.Enabled = false

	hits := matching.Evaluate(tx, []*models.GeneralLedgerEntry{entry}, []*models.MatchingRule{disabled})
	assert.Empty(t, hits)
}

func TestEvaluateLowerRuleStillClaimsOtherEntries(t *testing.T) {
	tx := &models.BankTransaction{
		ID:              uuid.New(),
		TransactionDate: day(2026, 2, 10),
		Amount:          dec(t, "-500.00"),
	}
	exactEntry := creditEntry(day(2026, 2, 20), "V1", "", "500.00")
	nearEntry := creditEntry(day(2026, 2, 11), "V2", "", "900.00")

	three := 3
	amountRule := newRule(t, models.RuleTypeAmount, models.RuleConditions{
		MinAmount: decPtr(t, "400.00"),
		MaxAmount: decPtr(t, "600.00"),
	}, 80)
	dateRule := newRule(t, models.RuleTypeDateRange, models.RuleConditions{MaxDaysDifference: &three}, 20)

	hits := matching.Evaluate(tx,
		[]*models.GeneralLedgerEntry{exactEntry, nearEntry},
		[]*models.MatchingRule{amountRule, dateRule})

	require.Len(t, hits, 2)

	byEntry := map[uuid.UUID]uuid.UUID{}
	for _, hit := range hits {
		byEntry[hit.Entry.ID] = hit.Rule.ID
	}
	assert.Equal(t, amountRule.ID, byEntry[exactEntry.ID])
	assert.Equal(t, dateRule.ID, byEntry[nearEntry.ID])
}

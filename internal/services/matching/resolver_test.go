package matching_test

import (
	"testing"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/services/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tuple(tx *models.BankTransaction, entry *models.GeneralLedgerEntry, rule *models.MatchingRule, confidence float64) matching.Tuple {
	return matching.Tuple{Transaction: tx, Entry: entry, Rule: rule, Confidence: confidence}
}

func TestResolveEntryContention(t *testing.T) {
	// Two transactions compete for the same single entry.
	strong := &models.BankTransaction{ID: uuid.New()}
	weak := &models.BankTransaction{ID: uuid.New()}
	entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")

	result := matching.Resolve([]matching.Tuple{
		tuple(weak, entry, nil, 0.6),
		tuple(strong, entry, nil, 0.9),
	}, 0.5)

	require.Len(t, result.Accepted, 1)
	assert.Equal(t, strong.ID, result.Accepted[0].Transaction.ID)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, weak.ID, result.Rejected[0].Transaction.ID)
}

func TestResolveConfidenceFloor(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New()}
	entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")

	result := matching.Resolve([]matching.Tuple{tuple(tx, entry, nil, 0.49)}, 0.5)

	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, tx.ID, result.Rejected[0].Transaction.ID)
}

func TestResolveTransactionClaimedOnce(t *testing.T) {
	tx := &models.BankTransaction{ID: uuid.New()}
	first := creditEntry(day(2026, 2, 10), "V1", "", "500.00")
	second := creditEntry(day(2026, 2, 10), "V2", "", "500.00")

	result := matching.Resolve([]matching.Tuple{
		tuple(tx, first, nil, 0.9),
		tuple(tx, second, nil, 0.8),
	}, 0.5)

	require.Len(t, result.Accepted, 1)
	assert.Equal(t, first.ID, result.Accepted[0].Entry.ID)
	assert.Len(t, result.Rejected, 1)
}

func TestResolveTieBrokenByRulePriority(t *testing.T) {
	txA := &models.BankTransaction{ID: uuid.New()}
	txB := &models.BankTransaction{ID: uuid.New()}
	entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")

	high := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "*"}, 90)
	low := newRule(t, models.RuleTypeKID, models.RuleConditions{KIDPattern: "*"}, 10)

	result := matching.Resolve([]matching.Tuple{
		tuple(txA, entry, low, 0.8),
		tuple(txB, entry, high, 0.8),
	}, 0.5)

	require.Len(t, result.Accepted, 1)
	assert.Equal(t, txB.ID, result.Accepted[0].Transaction.ID)
}

func TestResolveDeterministicOnEqualScores(t *testing.T) {
	txA := &models.BankTransaction{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001")}
	txB := &models.BankTransaction{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002")}
	entry := creditEntry(day(2026, 2, 10), "V1", "", "500.00")

	for range 10 {
		result := matching.Resolve([]matching.Tuple{
			tuple(txB, entry, nil, 0.8),
			tuple(txA, entry, nil, 0.8),
		}, 0.5)

		require.Len(t, result.Accepted, 1)
		assert.Equal(t, txA.ID, result.Accepted[0].Transaction.ID)
	}
}

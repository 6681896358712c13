package matching

import (
	"sort"

	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
)

// Tuple is one scored transaction/entry pairing entering assignment.
// Rule is nil for rule-less fallback candidates.
type Tuple struct {
	Transaction *models.BankTransaction
	Entry       *models.GeneralLedgerEntry
	Rule        *models.MatchingRule
	Confidence  float64
	Components  ScoreComponents
}

// Assignment is the conflict-free result of a resolver pass. Rejected holds
// the tuples skipped because a side was already claimed or the confidence
// floor was not met; they are reported, not silently discarded.
type Assignment struct {
	Accepted []Tuple
	Rejected []Tuple
}

// Resolve performs greedy assignment by confidence so that each transaction
// and each entry is claimed at most once. Greedy-by-confidence is an
// approximation of maximum-weight matching; volumes are modest and every
// accepted pair stays reversible via unmatch, so an auditable line-by-line
// order matters more than exactness.
func Resolve(tuples []Tuple, minConfidence float64) Assignment {
	ordered := make([]Tuple, len(tuples))
	copy(ordered, tuples)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		if pi, pj := rulePriority(ordered[i]), rulePriority(ordered[j]); pi != pj {
			return pi > pj
		}
		return txIDLess(ordered[i].Transaction.ID, ordered[j].Transaction.ID)
	})

	var result Assignment
	claimedTx := make(map[uuid.UUID]bool)
	claimedEntry := make(map[uuid.UUID]bool)

	for _, tuple := range ordered {
		if tuple.Confidence < minConfidence ||
			claimedTx[tuple.Transaction.ID] ||
			claimedEntry[tuple.Entry.ID] {
			result.Rejected = append(result.Rejected, tuple)
			continue
		}
		claimedTx[tuple.Transaction.ID] = true
		claimedEntry[tuple.Entry.ID] = true
		result.Accepted = append(result.Accepted, tuple)
	}
	return result
}

func rulePriority(t Tuple) int {
	if t.Rule == nil {
		return 0
	}
	return t.Rule.Priority
}

func txIDLess(a, b uuid.UUID) bool {
	return a.String() < b.String()
}

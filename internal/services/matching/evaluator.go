package matching

import (
	"sort"

	"bank-reconciliation-engine/internal/models"
)

// RuleHit is a candidate ledger entry for one transaction, tagged with the
// rule that claimed it. Provenance is kept so the resolver and the persisted
// match can tell an accountant which rule produced a pairing.
type RuleHit struct {
	Entry *models.GeneralLedgerEntry
	Rule  *models.MatchingRule
}

// SortRules orders rules the way evaluation walks them: priority descending,
// creation order ascending as the deterministic tiebreak.
func SortRules(rules []*models.MatchingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}

// Evaluate walks the rules in priority order against every candidate entry.
// An entry is claimed by the first rule that accepts it; lower-priority
// rules are not consulted for that entry again.
func Evaluate(tx *models.BankTransaction, entries []*models.GeneralLedgerEntry, rules []*models.MatchingRule) []RuleHit {
	SortRules(rules)

	var hits []RuleHit
	claimed := make(map[*models.GeneralLedgerEntry]bool)

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		for _, entry := range entries {
			if claimed[entry] {
				continue
			}
			if Matches(rule, tx, entry) {
				claimed[entry] = true
				hits = append(hits, RuleHit{Entry: entry, Rule: rule})
			}
		}
	}
	return hits
}

package reconciliation

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyMatched means one side of a requested pair is already bound
	// to an active match. Recoverable: the caller re-reads and retries.
	ErrAlreadyMatched = errors.New("transaction or ledger entry is already matched")

	// ErrNoSuchMatch means an unmatch target does not exist.
	ErrNoSuchMatch = errors.New("no active match for the given pair")

	// ErrNotFound means an unknown transaction, entry or rule id.
	ErrNotFound = errors.New("record not found")
)

// InvalidRuleConditionError rejects a malformed rule at the creation
// boundary, so bad conditions never reach matching time.
type InvalidRuleConditionError struct {
	RuleType string
	Field    string
	Reason   string
}

func (e *InvalidRuleConditionError) Error() string {
	return fmt.Sprintf("invalid conditions for %s rule: %s %s", e.RuleType, e.Field, e.Reason)
}

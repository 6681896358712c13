package matching

import (
	"regexp"
	"strings"
	"time"

	"bank-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Matches evaluates a single rule condition against a transaction/entry
// pair. A malformed conditions payload never matches; validation at rule
// creation is what keeps that from happening in practice.
func Matches(rule *models.MatchingRule, tx *models.BankTransaction, entry *models.GeneralLedgerEntry) bool {
	conds, err := rule.DecodeConditions()
	if err != nil {
		return false
	}

	switch rule.RuleType {
	case models.RuleTypeKID:
		subject := tx.KID
		if subject == "" {
			subject = tx.Reference
		}
		if subject == "" {
			return false
		}
		return MatchWildcard(conds.KIDPattern, subject, false)

	case models.RuleTypeAmount:
		if conds.MinAmount == nil {
			return false
		}
		net := entry.NetAmount().Abs()
		if net.LessThan(*conds.MinAmount) {
			return false
		}
		// unset max means unbounded
		if conds.MaxAmount != nil && net.GreaterThan(*conds.MaxAmount) {
			return false
		}
		return true

	case models.RuleTypeDescription:
		return MatchWildcard(conds.DescriptionPattern, tx.Description, true)

	case models.RuleTypeDateRange:
		if conds.MaxDaysDifference == nil {
			return false
		}
		return DaysApart(tx.TransactionDate, entry.AccountingDate) <= *conds.MaxDaysDifference

	default:
		return false
	}
}

// MatchWildcard matches an anchored wildcard pattern where `*` stands for
// any run of characters and everything else is literal.
func MatchWildcard(pattern, subject string, caseInsensitive bool) bool {
	if pattern == "" {
		return false
	}
	re, err := compileWildcard(pattern, caseInsensitive)
	if err != nil {
		return false
	}
	return re.MatchString(subject)
}

func compileWildcard(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	expr := "(?s)^" + strings.Join(parts, ".*") + "$"
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

// DaysApart is the calendar-day distance between two dates, ignoring the
// time-of-day component.
func DaysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ad.Sub(bd).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// amountsEqual compares to the cent.
func amountsEqual(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}

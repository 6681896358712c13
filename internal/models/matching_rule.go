package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	RuleTypeKID         = "kid"
	RuleTypeAmount      = "amount"
	RuleTypeDescription = "description"
	RuleTypeDateRange   = "date_range"
)

// MatchingRule is accountant-configured matching configuration. Priority runs
// 1-100, higher first. LastMatched counts how many auto-matches the rule has
// produced; it is the only field the matching run itself mutates.
type MatchingRule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	RuleType    string         `gorm:"index" json:"rule_type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Conditions  datatypes.JSON `json:"conditions"`
	Priority    int            `json:"priority"`
	Enabled     bool           `gorm:"index" json:"enabled"`
	LastMatched int64          `json:"last_matched"`
	CreatedAt   time.Time      `json:"created_at"`
}

// RuleConditions is the decoded form of the per-type conditions payload.
// Which fields are required depends on RuleType; that is checked once at
// rule creation, so matching-time decode failures simply never match.
type RuleConditions struct {
	KIDPattern         string           `json:"kid_pattern,omitempty"`
	MinAmount          *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount          *decimal.Decimal `json:"max_amount,omitempty"`
	DescriptionPattern string           `json:"description_pattern,omitempty"`
	MaxDaysDifference  *int             `json:"max_days_difference,omitempty"`
}

func (r *MatchingRule) DecodeConditions() (RuleConditions, error) {
	var c RuleConditions
	if len(r.Conditions) == 0 {
		return c, nil
	}
	err := json.Unmarshal(r.Conditions, &c)
	return c, err
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchTypeManual = "manual"
	MatchTypeAuto   = "auto"
	MatchTypeRule   = "rule"
)

// MatchedItem is the persisted record of a confirmed transaction/entry pair.
// The unique indexes enforce the 1:1 pairing at the database level: each side
// can carry at most one active match. Unmatching deletes the row.
type MatchedItem struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID          uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	BankTransactionID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"bank_transaction_id"`
	LedgerEntryID     uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"ledger_entry_id"`
	RuleID            *uuid.UUID     `gorm:"type:uuid" json:"rule_id,omitempty"`
	MatchType         string         `gorm:"index" json:"match_type"`
	MatchDate         time.Time      `json:"match_date"`
	MatchedBy         *string        `json:"matched_by,omitempty"`
	Confidence        float64        `json:"confidence"`
	MatchDetails      datatypes.JSON `json:"match_details,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

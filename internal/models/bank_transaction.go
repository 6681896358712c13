package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status values shared by bank transactions and ledger entries.
const (
	StatusUnmatched = "unmatched"
	StatusMatched   = "matched"
	StatusReviewed  = "reviewed"
)

type BankTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID        uuid.UUID       `gorm:"type:uuid;index" json:"client_id"`
	BankAccountID   string          `gorm:"index" json:"bank_account_id"`
	TransactionDate time.Time       `gorm:"column:transaction_date" json:"transaction_date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Currency        string          `json:"currency"`
	KID             string          `gorm:"column:kid" json:"kid,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Status          string          `gorm:"index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is a posted voucher from the bookkeeping subsystem.
// The engine only ever flips its Status; everything else is read-only here.
type GeneralLedgerEntry struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID       uuid.UUID    `gorm:"type:uuid;index" json:"client_id"`
	AccountingDate time.Time    `json:"accounting_date"`
	VoucherNumber  string       `gorm:"index" json:"voucher_number"`
	Description    string       `json:"description"`
	Status         string       `gorm:"index" json:"status"`
	Lines          []LedgerLine `gorm:"foreignKey:EntryID" json:"lines"`
	CreatedAt      time.Time    `json:"created_at"`
}

type LedgerLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID       uuid.UUID       `gorm:"type:uuid;index" json:"entry_id"`
	Position      int             `json:"position"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name,omitempty"`
	Debit         decimal.Decimal `gorm:"type:numeric" json:"debit"`
	Credit        decimal.Decimal `gorm:"type:numeric" json:"credit"`
}

// NetAmount is the entry total as seen by matching: sum of debits minus
// sum of credits across all lines.
func (e *GeneralLedgerEntry) NetAmount() decimal.Decimal {
	net := decimal.Zero
	for _, line := range e.Lines {
		net = net.Add(line.Debit).Sub(line.Credit)
	}
	return net
}

package repository

import (
	"time"

	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchedItemRepository struct {
	db *gorm.DB
}

func NewMatchedItemRepository(db *gorm.DB) *MatchedItemRepository {
	return &MatchedItemRepository{db: db}
}

// FindActive returns the active match binding the given pair, if any.
func (r *MatchedItemRepository) FindActive(clientID, transactionID, entryID uuid.UUID) (*models.MatchedItem, error) {
	var item models.MatchedItem
	err := r.db.First(&item,
		"client_id = ? AND bank_transaction_id = ? AND ledger_entry_id = ?",
		clientID, transactionID, entryID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByClient returns matches for a client, optionally restricted to a bank
// account and transaction date window (filters apply to the bank side).
func (r *MatchedItemRepository) ListByClient(clientID uuid.UUID, account string, startDate, endDate *time.Time) ([]models.MatchedItem, error) {
	var items []models.MatchedItem

	query := r.db.
		Joins("JOIN bank_transactions ON bank_transactions.id = matched_items.bank_transaction_id").
		Where("matched_items.client_id = ?", clientID).
		Order("matched_items.match_date DESC")

	if account != "" {
		query = query.Where("bank_transactions.bank_account_id = ?", account)
	}
	if startDate != nil {
		query = query.Where("bank_transactions.transaction_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("bank_transactions.transaction_date <= ?", *endDate)
	}

	err := query.Find(&items).Error
	return items, err
}

func (r *MatchedItemRepository) CountByClient(clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.MatchedItem{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

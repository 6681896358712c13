package repository

import (
	"time"

	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

// Expose DB if needed
func (r *BankTransactionRepository) DB() *gorm.DB {
	return r.db
}

func (r *BankTransactionRepository) Create(tx *models.BankTransaction) error {
	return r.db.Create(tx).Error
}

func (r *BankTransactionRepository) GetByID(clientID, id uuid.UUID) (*models.BankTransaction, error) {
	var tx models.BankTransaction
	err := r.db.First(&tx, "id = ? AND client_id = ?", id, clientID).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListUnmatched returns unmatched transactions for a client with optional
// bank account and date window filters.
func (r *BankTransactionRepository) ListUnmatched(clientID uuid.UUID, account string, startDate, endDate *time.Time) ([]models.BankTransaction, error) {
	var txs []models.BankTransaction

	query := r.db.
		Where("client_id = ? AND status = ?", clientID, models.StatusUnmatched).
		Order("transaction_date ASC, id ASC")

	if account != "" {
		query = query.Where("bank_account_id = ?", account)
	}
	if startDate != nil {
		query = query.Where("transaction_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("transaction_date <= ?", *endDate)
	}

	err := query.Find(&txs).Error
	return txs, err
}

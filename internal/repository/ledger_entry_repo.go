package repository

import (
	"time"

	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerEntryRepository struct {
	db *gorm.DB
}

func NewLedgerEntryRepository(db *gorm.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db}
}

func (r *LedgerEntryRepository) Create(entry *models.GeneralLedgerEntry) error {
	return r.db.Create(entry).Error
}

func (r *LedgerEntryRepository) GetByID(clientID, id uuid.UUID) (*models.GeneralLedgerEntry, error) {
	var entry models.GeneralLedgerEntry
	err := r.db.Preload("Lines").First(&entry, "id = ? AND client_id = ?", id, clientID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListUnmatched returns unmatched ledger entries for a client, lines
// preloaded, with an optional accounting date window.
func (r *LedgerEntryRepository) ListUnmatched(clientID uuid.UUID, startDate, endDate *time.Time) ([]models.GeneralLedgerEntry, error) {
	var entries []models.GeneralLedgerEntry

	query := r.db.
		Preload("Lines").
		Where("client_id = ? AND status = ?", clientID, models.StatusUnmatched).
		Order("accounting_date ASC, id ASC")

	if startDate != nil {
		query = query.Where("accounting_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("accounting_date <= ?", *endDate)
	}

	err := query.Find(&entries).Error
	return entries, err
}

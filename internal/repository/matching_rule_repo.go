package repository

import (
	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchingRuleRepository struct {
	db *gorm.DB
}

func NewMatchingRuleRepository(db *gorm.DB) *MatchingRuleRepository {
	return &MatchingRuleRepository{db: db}
}

func (r *MatchingRuleRepository) Create(rule *models.MatchingRule) error {
	return r.db.Create(rule).Error
}

func (r *MatchingRuleRepository) Save(rule *models.MatchingRule) error {
	return r.db.Save(rule).Error
}

func (r *MatchingRuleRepository) Delete(clientID, id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ? AND client_id = ?", id, clientID).Delete(&models.MatchingRule{})
	return res.RowsAffected, res.Error
}

func (r *MatchingRuleRepository) GetByID(clientID, id uuid.UUID) (*models.MatchingRule, error) {
	var rule models.MatchingRule
	err := r.db.First(&rule, "id = ? AND client_id = ?", id, clientID).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *MatchingRuleRepository) ListByClient(clientID uuid.UUID) ([]models.MatchingRule, error) {
	var rules []models.MatchingRule
	err := r.db.
		Where("client_id = ?", clientID).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

// ListEnabled returns the rule snapshot used by an auto-match run: enabled
// rules only, highest priority first, creation order as tiebreak.
func (r *MatchingRuleRepository) ListEnabled(clientID uuid.UUID) ([]models.MatchingRule, error) {
	var rules []models.MatchingRule
	err := r.db.
		Where("client_id = ? AND enabled = ?", clientID, true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

package reconciliation

import (
	"encoding/json"
	"errors"
	"time"

	"bank-reconciliation-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleInput carries the mutable fields of a matching rule across the
// create/update boundary. Conditions are validated here, once, against the
// declared rule type; the matching run trusts what is stored.
type RuleInput struct {
	RuleType    string
	Name        string
	Description string
	Conditions  models.RuleConditions
	Priority    int
	Enabled     bool
}

func (s *Service) ListRules(clientID uuid.UUID) ([]models.MatchingRule, error) {
	return s.ruleRepo.ListByClient(clientID)
}

func (s *Service) CreateRule(clientID uuid.UUID, in RuleInput) (*models.MatchingRule, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	conditions, err := json.Marshal(in.Conditions)
	if err != nil {
		return nil, err
	}

	rule := &models.MatchingRule{
		ID:          uuid.New(),
		ClientID:    clientID,
		RuleType:    in.RuleType,
		Name:        in.Name,
		Description: in.Description,
		Conditions:  conditions,
		Priority:    in.Priority,
		Enabled:     in.Enabled,
		CreatedAt:   time.Now(),
	}
	if err := s.ruleRepo.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) UpdateRule(clientID, id uuid.UUID, in RuleInput) (*models.MatchingRule, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.GetByID(clientID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	conditions, err := json.Marshal(in.Conditions)
	if err != nil {
		return nil, err
	}

	rule.RuleType = in.RuleType
	rule.Name = in.Name
	rule.Description = in.Description
	rule.Conditions = conditions
	rule.Priority = in.Priority
	rule.Enabled = in.Enabled

	if err := s.ruleRepo.Save(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) DeleteRule(clientID, id uuid.UUID) error {
	affected, err := s.ruleRepo.Delete(clientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateRuleInput(in RuleInput) error {
	if in.Name == "" {
		return &InvalidRuleConditionError{RuleType: in.RuleType, Field: "name", Reason: "is required"}
	}
	if in.Priority < 1 || in.Priority > 100 {
		return &InvalidRuleConditionError{RuleType: in.RuleType, Field: "priority", Reason: "must be between 1 and 100"}
	}
	return ValidateRuleConditions(in.RuleType, in.Conditions)
}

// ValidateRuleConditions checks the type-specific conditions payload.
func ValidateRuleConditions(ruleType string, c models.RuleConditions) error {
	switch ruleType {
	case models.RuleTypeKID:
		if c.KIDPattern == "" {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "kid_pattern", Reason: "is required"}
		}
	case models.RuleTypeAmount:
		if c.MinAmount == nil {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "min_amount", Reason: "is required"}
		}
		if c.MinAmount.IsNegative() {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "min_amount", Reason: "must not be negative"}
		}
		if c.MaxAmount != nil && c.MaxAmount.LessThan(*c.MinAmount) {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "max_amount", Reason: "must not be below min_amount"}
		}
	case models.RuleTypeDescription:
		if c.DescriptionPattern == "" {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "description_pattern", Reason: "is required"}
		}
	case models.RuleTypeDateRange:
		if c.MaxDaysDifference == nil {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "max_days_difference", Reason: "is required"}
		}
		if *c.MaxDaysDifference < 0 {
			return &InvalidRuleConditionError{RuleType: ruleType, Field: "max_days_difference", Reason: "must not be negative"}
		}
	default:
		return &InvalidRuleConditionError{RuleType: ruleType, Field: "rule_type", Reason: "is not a known rule type"}
	}
	return nil
}

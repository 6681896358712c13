package handler

import (
	"net/http"

	"bank-reconciliation-engine/internal/models"
	service "bank-reconciliation-engine/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RulesHandler struct {
	service *service.Service
}

func NewRulesHandler(s *service.Service) *RulesHandler {
	return &RulesHandler{service: s}
}

type rulePayload struct {
	ClientID    string                `json:"client_id"`
	RuleType    string                `json:"rule_type"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Conditions  models.RuleConditions `json:"conditions"`
	Priority    int                   `json:"priority"`
	Enabled     *bool                 `json:"enabled"`
}

func (p rulePayload) toInput() service.RuleInput {
	enabled := true
	if p.Enabled != nil {
		enabled = *p.Enabled
	}
	return service.RuleInput{
		RuleType:    p.RuleType,
		Name:        p.Name,
		Description: p.Description,
		Conditions:  p.Conditions,
		Priority:    p.Priority,
		Enabled:     enabled,
	}
}

func (h *RulesHandler) List(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	rules, err := h.service.ListRules(clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *RulesHandler) Create(c *gin.Context) {
	var payload rulePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}

	rule, err := h.service.CreateRule(clientID, payload.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "rule created", "rule": rule})
}

func (h *RulesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule ID"})
		return
	}

	var payload rulePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}

	rule, err := h.service.UpdateRule(clientID, id, payload.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule updated", "rule": rule})
}

func (h *RulesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule ID"})
		return
	}
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRule(clientID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}

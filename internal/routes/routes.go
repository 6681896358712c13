package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "bank-reconciliation-engine/internal/handlers"
	"bank-reconciliation-engine/internal/repository"
	service "bank-reconciliation-engine/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, minConfidence float64) {
	transactionRepo := repository.NewBankTransactionRepository(db)
	entryRepo := repository.NewLedgerEntryRepository(db)
	ruleRepo := repository.NewMatchingRuleRepository(db)
	matchRepo := repository.NewMatchedItemRepository(db)

	reconService := service.NewService(
		transactionRepo,
		entryRepo,
		ruleRepo,
		matchRepo,
		minConfidence,
	)

	reconHandler := handler.NewReconciliationHandler(reconService)
	rulesHandler := handler.NewRulesHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Reconciliation routes
	recon := api.Group("/reconciliation")
	recon.GET("/unmatched", reconHandler.GetUnmatched)
	recon.GET("/matched", reconHandler.GetMatched)
	recon.POST("/match", reconHandler.Match)
	recon.POST("/unmatch", reconHandler.Unmatch)
	recon.POST("/auto-match", reconHandler.AutoMatch)

	// Matching rule routes
	rules := api.Group("/rules")
	{
		rules.GET("", rulesHandler.List)
		rules.POST("", rulesHandler.Create)
		rules.PUT("/:id", rulesHandler.Update)
		rules.DELETE("/:id", rulesHandler.Delete)
	}

	// Record creation (bank import and bookkeeping live upstream; these are
	// thin insert endpoints)
	api.POST("/transactions", reconHandler.CreateTransaction)
	api.POST("/ledger-entries", reconHandler.CreateLedgerEntry)
}

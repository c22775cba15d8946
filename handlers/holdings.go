package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio-tracker/config"
	"portfolio-tracker/store"
)

type HoldingInput struct {
	Symbol        string          `json:"symbol" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
}

func AddHolding(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	portfolioID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input HoldingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding, err := store.AddHolding(config.DB, userID, portfolioID, input.Symbol, input.Quantity, input.PurchasePrice)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, holding)
}

func ListHoldings(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	portfolioID, ok := pathID(c, "id")
	if !ok {
		return
	}

	filter := store.HoldingFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("order_by"),
		Desc:    c.Query("order") == "desc",
	}

	holdings, err := store.ListHoldings(config.DB, userID, portfolioID, filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, holdings)
}

func DeleteHolding(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	portfolioID, ok := pathID(c, "id")
	if !ok {
		return
	}
	holdingID, ok := pathID(c, "holdingID")
	if !ok {
		return
	}

	if err := store.RemoveHolding(config.DB, userID, portfolioID, holdingID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// PortfolioValuation values every holding against live prices. Symbols
// whose price lookup fails still appear in the response, just without
// current figures; they count as zero in the total.
func PortfolioValuation(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	portfolioID, ok := pathID(c, "id")
	if !ok {
		return
	}

	portfolio, err := store.GetPortfolio(config.DB, userID, portfolioID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	holdings, err := store.ListHoldings(config.DB, userID, portfolio.ID, store.HoldingFilter{})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, Engine.ValuePortfolio(c.Request.Context(), portfolio, holdings))
}

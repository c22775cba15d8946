package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-tracker/config"
	"portfolio-tracker/store"
)

type PortfolioInput struct {
	Name string `json:"name" binding:"required"`
}

func CreatePortfolio(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	portfolio, err := store.CreatePortfolio(config.DB, userID, input.Name, config.MaxPortfoliosPerUser())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, portfolio)
}

func ListPortfolios(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	portfolios, err := store.ListPortfolios(config.DB, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

func GetPortfolio(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"id":       portfolio.ID,
		"name":     portfolio.Name,
		"user_id":  portfolio.UserID,
		"holdings": holdings,
	})
}

func DeletePortfolio(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	portfolioID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := store.DeletePortfolio(config.DB, userID, portfolioID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

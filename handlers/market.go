package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-tracker/valuation"
)

const defaultHistoryDays = 30

func GetStockPrice(c *gin.Context) {
	symbol := c.Param("symbol")

	price, err := Market.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, valuation.ErrPriceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Price unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": price})
}

func GetPriceHistory(c *gin.Context) {
	symbol := c.Param("symbol")

	days := defaultHistoryDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	quotes, err := Market.History(c.Request.Context(), symbol, days)
	if err != nil {
		if errors.Is(err, valuation.ErrPriceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Historical data unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch historical data"})
		return
	}

	c.JSON(http.StatusOK, quotes)
}

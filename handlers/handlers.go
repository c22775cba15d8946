package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"portfolio-tracker/market"
	"portfolio-tracker/store"
	"portfolio-tracker/valuation"
)

// Market and Engine are wired once at startup.
var (
	Market *market.Client
	Engine *valuation.Engine
)

func Init(m *market.Client, e *valuation.Engine) {
	Market = m
	Engine = e
}

// respondStoreError maps the store error taxonomy onto HTTP statuses.
// Not-found is deliberately uniform: foreign-owned rows are
// indistinguishable from missing ones.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicateHolding),
		errors.Is(err, store.ErrDuplicatePortfolio),
		errors.Is(err, store.ErrPortfolioLimit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInvalidPrice),
		errors.Is(err, store.ErrInvalidSymbol),
		errors.Is(err, store.ErrInvalidName),
		errors.Is(err, store.ErrInvalidOrderField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

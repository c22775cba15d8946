package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// ResolveStock returns the stock for a symbol, creating it on first
// reference. Symbols are case-normalized to uppercase and the symbol doubles
// as the default display name. Concurrent first references to the same
// symbol are settled by the unique index on symbol: the loser of the insert
// race re-selects the winner's row.
func ResolveStock(db *gorm.DB, symbol string) (*models.Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	var stock models.Stock
	err := db.Where("symbol = ?", symbol).First(&stock).Error
	if err == nil {
		return &stock, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stock = models.Stock{Symbol: symbol, Name: symbol}
	err = db.Create(&stock).Error
	if err == nil {
		return &stock, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Lost the race; someone else just created it.
	if err := db.Where("symbol = ?", symbol).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// HoldingRow is a holding joined with its stock, as returned by listings.
type HoldingRow struct {
	ID            uint            `json:"id"`
	PortfolioID   uint            `json:"portfolio_id"`
	StockID       uint            `json:"stock_id"`
	Symbol        string          `json:"symbol"`
	StockName     string          `json:"stock_name"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
}

// HoldingFilter narrows and orders a holdings listing. Search matches a
// substring of the stock symbol or name, case-insensitively. OrderBy must be
// one of quantity, purchase_price or purchase_date; empty means stable id
// order.
type HoldingFilter struct {
	Search  string
	OrderBy string
	Desc    bool
}

var holdingOrderColumns = map[string]string{
	"quantity":       "holdings.quantity",
	"purchase_price": "holdings.purchase_price",
	"purchase_date":  "holdings.purchase_date",
}

// AddHolding records a new position in one of the user's portfolios. The
// purchase date is stamped here, never taken from the caller. A stock
// already held in the portfolio is rejected, not merged.
func AddHolding(db *gorm.DB, userID, portfolioID uint, symbol string, quantity int, purchasePrice decimal.Decimal) (*models.Holding, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if purchasePrice.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	portfolio, err := GetPortfolio(db, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	stock, err := ResolveStock(db, symbol)
	if err != nil {
		return nil, err
	}

	holding := models.Holding{
		PortfolioID:   portfolio.ID,
		StockID:       stock.ID,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  time.Now().UTC(),
	}
	if err := db.Create(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateHolding
		}
		return nil, err
	}
	return &holding, nil
}

// RemoveHolding deletes a holding by id within one of the user's
// portfolios. A holding id that belongs to another user's portfolio is
// reported as ErrNotFound, same as an id that never existed.
func RemoveHolding(db *gorm.DB, userID, portfolioID, holdingID uint) error {
	portfolio, err := GetPortfolio(db, userID, portfolioID)
	if err != nil {
		return err
	}

	// Hard delete: a soft-deleted row would keep occupying the
	// (portfolio, stock) unique index and block re-adding the stock.
	res := db.Unscoped().Where("id = ? AND portfolio_id = ?", holdingID, portfolio.ID).Delete(&models.Holding{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListHoldings returns the holdings of one of the user's portfolios joined
// with their stocks in a single query.
func ListHoldings(db *gorm.DB, userID, portfolioID uint, filter HoldingFilter) ([]HoldingRow, error) {
	portfolio, err := GetPortfolio(db, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	order := "holdings.id"
	if filter.OrderBy != "" {
		col, ok := holdingOrderColumns[filter.OrderBy]
		if !ok {
			return nil, ErrInvalidOrderField
		}
		order = col
		if filter.Desc {
			order += " DESC"
		}
	}

	query := db.Model(&models.Holding{}).
		Select("holdings.id, holdings.portfolio_id, holdings.stock_id, stocks.symbol, stocks.name AS stock_name, holdings.quantity, holdings.purchase_price, holdings.purchase_date").
		Joins("JOIN stocks ON stocks.id = holdings.stock_id").
		Where("holdings.portfolio_id = ?", portfolio.ID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(stocks.symbol) LIKE LOWER(?) OR LOWER(stocks.name) LIKE LOWER(?)", pattern, pattern)
	}

	// Non-nil so an empty ledger serializes as [], not null.
	rows := make([]HoldingRow, 0)
	if err := query.Order(order).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

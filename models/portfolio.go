package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Portfolio struct {
	gorm.Model
	UserID   uint      `gorm:"uniqueIndex:uq_portfolios_user_name;not null" json:"user_id"`
	Name     string    `gorm:"uniqueIndex:uq_portfolios_user_name;not null" json:"name"`
	Holdings []Holding `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Holding is one stock position inside a portfolio. A portfolio can hold a
// given stock at most once; adding it again must fail, not merge.
type Holding struct {
	gorm.Model
	PortfolioID   uint            `gorm:"uniqueIndex:uq_holdings_portfolio_stock;not null" json:"portfolio_id"`
	StockID       uint            `gorm:"uniqueIndex:uq_holdings_portfolio_stock;not null" json:"stock_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"purchase_price"`
	PurchaseDate  time.Time       `gorm:"not null" json:"purchase_date"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock is a market instrument, created lazily the first time any portfolio
// references its symbol. Symbols are stored uppercase. Stocks are never
// deleted; holdings reference them without owning them.
type Stock struct {
	gorm.Model
	Symbol string `gorm:"uniqueIndex;not null" json:"symbol"`
	Name   string `gorm:"not null" json:"name"`
}

type PriceQuote struct {
	gorm.Model
	Symbol    string          `gorm:"index" json:"symbol"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	FetchedAt time.Time       `json:"fetched_at"`
}

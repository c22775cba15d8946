// Package valuation derives cost and current-value figures for holdings and
// portfolios. Nothing here is persisted; results are computed per request
// from ledger rows and live oracle prices.
package valuation

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"portfolio-tracker/models"
	"portfolio-tracker/store"
)

// ErrPriceUnavailable is what oracle implementations return when a price
// cannot be obtained for any reason: network failure, unknown symbol,
// malformed upstream response, timeout. It never propagates to API callers;
// valuations degrade instead.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceOracle looks up the current market price of a symbol. One synchronous
// network call per symbol.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// HoldingValue is the valuation of a single holding. CurrentPrice and
// CurrentValue are nil when the oracle had no price for the symbol.
type HoldingValue struct {
	HoldingID     uint             `json:"id"`
	Symbol        string           `json:"symbol"`
	Quantity      int              `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	CurrentValue  *decimal.Decimal `json:"current_value,omitempty"`
}

// PortfolioValue aggregates holding valuations. TotalValue is best-effort:
// holdings whose price lookup failed contribute zero rather than failing
// the whole aggregation.
type PortfolioValue struct {
	PortfolioID uint            `json:"portfolio_id"`
	Name        string          `json:"name"`
	Holdings    []HoldingValue  `json:"holdings"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalValue  decimal.Decimal `json:"total_portfolio_value"`
}

type Engine struct {
	oracle PriceOracle
}

func NewEngine(oracle PriceOracle) *Engine {
	return &Engine{oracle: oracle}
}

// ValueHolding computes cost and current value for one ledger row.
func (e *Engine) ValueHolding(ctx context.Context, row store.HoldingRow) HoldingValue {
	hv := holdingValue(row)

	price, err := e.oracle.GetPrice(ctx, row.Symbol)
	if err != nil {
		log.WithField("symbol", row.Symbol).WithError(err).Warn("price lookup failed")
		return hv
	}
	applyPrice(&hv, price)
	return hv
}

// ValuePortfolio values every holding of a portfolio. Prices are fetched
// concurrently, one oracle call per distinct symbol; nothing depends on the
// ordering between them.
func (e *Engine) ValuePortfolio(ctx context.Context, portfolio *models.Portfolio, rows []store.HoldingRow) PortfolioValue {
	pv := PortfolioValue{
		PortfolioID: portfolio.ID,
		Name:        portfolio.Name,
		Holdings:    make([]HoldingValue, 0, len(rows)),
	}

	prices := e.fetchPrices(ctx, distinctSymbols(rows))

	for _, row := range rows {
		hv := holdingValue(row)
		if price, ok := prices[row.Symbol]; ok {
			applyPrice(&hv, price)
			pv.TotalValue = pv.TotalValue.Add(*hv.CurrentValue)
		}
		pv.TotalCost = pv.TotalCost.Add(hv.TotalCost)
		pv.Holdings = append(pv.Holdings, hv)
	}
	return pv
}

// fetchPrices fans out one oracle call per symbol and collects whatever
// succeeded. Failures are logged and dropped from the result.
func (e *Engine) fetchPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(symbols))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			price, err := e.oracle.GetPrice(ctx, symbol)
			if err != nil {
				log.WithField("symbol", symbol).WithError(err).Warn("price lookup failed")
				return
			}
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return prices
}

func holdingValue(row store.HoldingRow) HoldingValue {
	quantity := decimal.NewFromInt(int64(row.Quantity))
	return HoldingValue{
		HoldingID:     row.ID,
		Symbol:        row.Symbol,
		Quantity:      row.Quantity,
		PurchasePrice: row.PurchasePrice,
		TotalCost:     row.PurchasePrice.Mul(quantity),
	}
}

func applyPrice(hv *HoldingValue, price decimal.Decimal) {
	value := price.Mul(decimal.NewFromInt(int64(hv.Quantity)))
	hv.CurrentPrice = &price
	hv.CurrentValue = &value
}

func distinctSymbols(rows []store.HoldingRow) []string {
	seen := make(map[string]struct{}, len(rows))
	symbols := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Symbol]; ok {
			continue
		}
		seen[row.Symbol] = struct{}{}
		symbols = append(symbols, row.Symbol)
	}
	return symbols
}

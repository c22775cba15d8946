// Package market implements the live-price oracle backed by Polygon.io,
// with a Redis read-through cache in front of every upstream call and an
// append-only quote history in Postgres.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	polygon "github.com/polygon-io/client-go/rest"
	polymodels "github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio-tracker/database"
	"portfolio-tracker/models"
	"portfolio-tracker/valuation"
)

const (
	priceCallTimeout = 5 * time.Second
	historyCacheTTL  = 24 * time.Hour
	historyBatchSize = 100
)

type Client struct {
	polygon  *polygon.Client
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

func New(apiKey string, db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		polygon:  polygon.New(apiKey),
		db:       db,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

// GetPrice returns the current market price for a symbol. Cached prices are
// served from Redis; otherwise the Polygon last-trade endpoint is called
// with a per-call timeout, and the result is cached and recorded as a
// PriceQuote row. Every failure mode collapses to ErrPriceUnavailable.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return decimal.Decimal{}, valuation.ErrPriceUnavailable
	}

	key := priceKey(symbol)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if price, err := decimal.NewFromString(cached); err == nil {
			return price, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, priceCallTimeout)
	defer cancel()

	res, err := c.polygon.GetLastTrade(callCtx, &polymodels.GetLastTradeParams{Ticker: symbol})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", valuation.ErrPriceUnavailable, err)
	}

	price := decimal.NewFromFloat(res.Results.Price)
	if price.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: no last trade for %s", valuation.ErrPriceUnavailable, symbol)
	}

	if err := c.rdb.Set(ctx, key, price.String(), c.cacheTTL).Err(); err != nil {
		log.WithField("symbol", symbol).WithError(err).Warn("failed to cache price")
	}

	quote := models.PriceQuote{Symbol: symbol, Price: price, FetchedAt: time.Now().UTC()}
	if err := c.db.Create(&quote).Error; err != nil {
		log.WithField("symbol", symbol).WithError(err).Warn("failed to record quote")
	}

	return price, nil
}

// History returns daily closing quotes for the last `days` days, newest
// last. Results are cached in Redis and persisted in batches, mirroring the
// price path.
func (c *Client) History(ctx context.Context, symbol string, days int) ([]models.PriceQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, valuation.ErrPriceUnavailable
	}

	key := historyKey(symbol)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var quotes []models.PriceQuote
		if err := json.Unmarshal([]byte(cached), &quotes); err == nil {
			return quotes, nil
		}
	}

	now := time.Now()
	params := polymodels.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   polymodels.Day,
		From:       polymodels.Millis(now.AddDate(0, 0, -days)),
		To:         polymodels.Millis(now),
	}.WithOrder(polymodels.Asc).WithAdjusted(true)

	iter := c.polygon.ListAggs(ctx, params)

	var quotes []models.PriceQuote
	for iter.Next() {
		quotes = append(quotes, models.PriceQuote{
			Symbol:    symbol,
			Price:     decimal.NewFromFloat(iter.Item().Close),
			FetchedAt: time.Time(iter.Item().Timestamp),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", valuation.ErrPriceUnavailable, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no aggregates for %s", valuation.ErrPriceUnavailable, symbol)
	}

	if err := database.CreateInBatches(c.db, quotes, historyBatchSize); err != nil {
		log.WithField("symbol", symbol).WithError(err).Warn("failed to record quote history")
	}

	if data, err := json.Marshal(quotes); err == nil {
		if err := c.rdb.Set(ctx, key, data, historyCacheTTL).Err(); err != nil {
			log.WithField("symbol", symbol).WithError(err).Warn("failed to cache quote history")
		}
	}

	return quotes, nil
}

func priceKey(symbol string) string {
	return fmt.Sprintf("stock:%s:price", symbol)
}

func historyKey(symbol string) string {
	return fmt.Sprintf("stock:%s:history", symbol)
}

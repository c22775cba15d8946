package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-tracker/models"
)

func TestAddHoldingStampsPurchaseDate(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Second)
	holding, err := AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	assert.False(t, holding.PurchaseDate.Before(before))
	assert.False(t, holding.PurchaseDate.After(time.Now().UTC().Add(time.Second)))
}

func TestAddHoldingValidation(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 0, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", -3, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// Failed validation must leave no partial state behind.
	var count int64
	require.NoError(t, db.Model(&models.Holding{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAddHoldingRejectsDuplicateStock(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, portfolio.ID, "aapl", 5, decimal.RequireFromString("200.00"))
	assert.ErrorIs(t, err, ErrDuplicateHolding)

	// No merge: the ledger still holds exactly one AAPL row at the
	// original quantity.
	rows, err := ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Quantity)
}

func TestAddHoldingSameStockDifferentPortfolios(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	first, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)
	second, err := CreatePortfolio(db, user.ID, "Retirement", 0)
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, first.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	_, err = AddHolding(db, user.ID, second.ID, "AAPL", 5, decimal.RequireFromString("160.00"))
	assert.NoError(t, err)
}

func TestAddThenRemoveHoldingRoundTrip(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	holding, err := AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	require.NoError(t, RemoveHolding(db, user.ID, portfolio.ID, holding.ID))

	rows, err := ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// The stock itself survives holding deletion.
	var stock models.Stock
	assert.NoError(t, db.Where("symbol = ?", "AAPL").First(&stock).Error)

	// And the same stock can be added again afterwards.
	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 3, decimal.RequireFromString("155.00"))
	assert.NoError(t, err)
}

func TestRemoveHoldingForeignOwnerIsNotFound(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "a@example.com")
	bob := createTestUser(t, db, "b@example.com")

	alicePortfolio, err := CreatePortfolio(db, alice.ID, "Main", 0)
	require.NoError(t, err)
	holding, err := AddHolding(db, alice.ID, alicePortfolio.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	// Bob guessing Alice's ids must see not-found, whether he names her
	// portfolio or his own.
	err = RemoveHolding(db, bob.ID, alicePortfolio.ID, holding.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bobPortfolio, err := CreatePortfolio(db, bob.ID, "Main", 0)
	require.NoError(t, err)
	err = RemoveHolding(db, bob.ID, bobPortfolio.ID, holding.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := ListHoldings(db, alice.ID, alicePortfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRemoveHoldingUnknownIDIsNotFound(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	assert.ErrorIs(t, RemoveHolding(db, user.ID, portfolio.ID, 9999), ErrNotFound)
}

func TestListHoldingsSearchAndOrder(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 10, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	_, err = AddHolding(db, user.ID, portfolio.ID, "GOOG", 2, decimal.RequireFromString("2500.00"))
	require.NoError(t, err)
	_, err = AddHolding(db, user.ID, portfolio.ID, "MSFT", 7, decimal.RequireFromString("300.00"))
	require.NoError(t, err)

	// Default: stable insertion order.
	rows, err := ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, symbols(rows))

	// Ordered by quantity descending.
	rows, err = ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{OrderBy: "quantity", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, symbols(rows))

	// Ordered by purchase price ascending.
	rows, err = ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{OrderBy: "purchase_price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, symbols(rows))

	// Case-insensitive substring search on symbol.
	rows, err = ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{Search: "oo"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GOOG", rows[0].Symbol)

	// Unknown order fields are rejected, not interpolated.
	_, err = ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{OrderBy: "id; DROP TABLE holdings"})
	assert.ErrorIs(t, err, ErrInvalidOrderField)
}

func TestListHoldingsEmptyPortfolioIsEmptyNotNil(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	rows, err := ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestListHoldingsForeignPortfolioIsNotFound(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "a@example.com")
	bob := createTestUser(t, db, "b@example.com")

	portfolio, err := CreatePortfolio(db, alice.ID, "Main", 0)
	require.NoError(t, err)

	_, err = ListHoldings(db, bob.ID, portfolio.ID, HoldingFilter{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHoldingPriceKeepsFourFractionalDigits(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	portfolio, err := CreatePortfolio(db, user.ID, "Main", 0)
	require.NoError(t, err)

	_, err = AddHolding(db, user.ID, portfolio.ID, "AAPL", 3, decimal.RequireFromString("150.0001"))
	require.NoError(t, err)

	rows, err := ListHoldings(db, user.ID, portfolio.ID, HoldingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PurchasePrice.Equal(decimal.RequireFromString("150.0001")),
		"got %s", rows[0].PurchasePrice)
}

func symbols(rows []HoldingRow) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Symbol
	}
	return out
}

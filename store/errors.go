package store

import "fmt"

var (
	// ErrNotFound covers both genuinely missing rows and rows owned by
	// another user. Callers must not be able to tell the two apart.
	ErrNotFound = fmt.Errorf("not found")

	ErrDuplicateHolding   = fmt.Errorf("stock already held in this portfolio")
	ErrDuplicatePortfolio = fmt.Errorf("portfolio name already in use")
	ErrPortfolioLimit     = fmt.Errorf("portfolio limit reached")

	ErrInvalidQuantity   = fmt.Errorf("quantity must be a positive integer")
	ErrInvalidPrice      = fmt.Errorf("purchase price must be positive")
	ErrInvalidSymbol     = fmt.Errorf("symbol is required")
	ErrInvalidName       = fmt.Errorf("name is required")
	ErrInvalidOrderField = fmt.Errorf("unknown order field")
)

package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// CreatePortfolio creates a named portfolio for the user. maxPerUser caps
// how many portfolios a single user may own; zero means unlimited. Names
// are unique per user so lookups by name stay unambiguous.
func CreatePortfolio(db *gorm.DB, userID uint, name string, maxPerUser int) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if maxPerUser > 0 {
		var count int64
		if err := db.Model(&models.Portfolio{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(maxPerUser) {
			return nil, ErrPortfolioLimit
		}
	}

	portfolio := models.Portfolio{UserID: userID, Name: name}
	if err := db.Create(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePortfolio
		}
		return nil, err
	}
	return &portfolio, nil
}

// ListPortfolios returns the user's own portfolios, oldest first.
func ListPortfolios(db *gorm.DB, userID uint) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := db.Where("user_id = ?", userID).Order("id").Find(&portfolios).Error
	return portfolios, err
}

// GetPortfolio fetches one of the user's portfolios. A portfolio that does
// not exist and a portfolio owned by someone else both come back as
// ErrNotFound.
func GetPortfolio(db *gorm.DB, userID, portfolioID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := db.Where("id = ? AND user_id = ?", portfolioID, userID).First(&portfolio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// DeletePortfolio removes a portfolio and its holdings.
func DeletePortfolio(db *gorm.DB, userID, portfolioID uint) error {
	portfolio, err := GetPortfolio(db, userID, portfolioID)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Hard deletes: soft-deleted rows would keep occupying the unique
	// indexes and block reusing the name or re-adding stocks.
	if err := tx.Unscoped().Where("portfolio_id = ?", portfolio.ID).Delete(&models.Holding{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Delete(portfolio).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

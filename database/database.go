package database

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"portfolio-tracker/models"
)

var (
	ErrInvalidTransaction = fmt.Errorf("invalid transaction")
	ErrInvalidData        = fmt.Errorf("invalid data, expected slice")
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Stock{},
		&models.Portfolio{},
		&models.Holding{},
		&models.PriceQuote{},
	)
}

// CreateInBatches inserts a slice of rows in chunks inside one transaction.
func CreateInBatches(db *gorm.DB, data interface{}, batchSize int) error {
	if batchSize <= 0 {
		return ErrInvalidTransaction
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if tx.Error != nil {
		return tx.Error
	}

	slice := reflect.ValueOf(data)
	if slice.Kind() != reflect.Slice {
		tx.Rollback()
		return ErrInvalidData
	}

	total := slice.Len()
	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}

		chunk := slice.Slice(i, end).Interface()
		if err := tx.Create(chunk).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("batch insert failed: %w", err)
		}
	}

	return tx.Commit().Error
}

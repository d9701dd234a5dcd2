package database

import (
	"log"

	"timebill/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	// TranslateError maps driver errors onto gorm sentinels, e.g. unique
	// violations onto gorm.ErrDuplicatedKey for the invoice number retry.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Company{},
		&model.BillableItem{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

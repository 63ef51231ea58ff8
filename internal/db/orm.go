package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/logging"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// AppDB holds portal data: catalog, org roster, members, content, fleet.
var AppDB *gorm.DB

// AuthDB holds accounts and credentials, kept on its own connection so the
// two scopes can live in separate databases.
var AuthDB *gorm.DB

// InitAppORM connects the application-scope GORM handle.
func InitAppORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to app database: %w", err)
	}

	AppDB = db
	logging.Info("Connected to app database via GORM")
	return db, nil
}

// InitAuthORM connects the auth-scope GORM handle.
func InitAuthORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to auth database: %w", err)
	}

	AuthDB = db
	logging.Info("Connected to auth database via GORM")
	return db, nil
}

// MigrateApp creates or updates the application-scope tables.
func MigrateApp(db *gorm.DB) error {
	return db.AutoMigrate(
		&gormModels.Manufacturer{},
		&gormModels.Ship{},
		&gormModels.ShipComponent{},
		&gormModels.Organization{},
		&gormModels.OrganizationMember{},
		&gormModels.Member{},
		&gormModels.FleetShip{},
		&gormModels.Squadron{},
		&gormModels.SquadronMember{},
		&gormModels.BlogPost{},
		&gormModels.Item{},
		&gormModels.ContactSubmission{},
	)
}

// MigrateAuth creates or updates the auth-scope tables.
func MigrateAuth(db *gorm.DB) error {
	return db.AutoMigrate(
		&gormModels.User{},
	)
}

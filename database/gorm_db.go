package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/legacymappings/legacy"
	"github.com/camden-git/legacymappings/models"
)

// NewGormLogger returns the logger shared by the database and the registry.
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// InitGormDB initializes and returns a GORM database instance with the legacy
// mappings plugin installed for registry.
func InitGormDB(dataSourceName string, registry *Registry, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = NewGormLogger(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger:         gormLogger,
		NamingStrategy: registry.namer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	if err := db.Use(&LegacyPlugin{Registry: registry}); err != nil {
		return nil, fmt.Errorf("failed to install legacy mappings plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels can be called after InitGormDB to migrate schemas
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.LegacyRecord{},
		&models.SpecialRecord{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}

// RegisterModels attaches the alias maps of every legacy model to registry.
// Entries in mf, when given, extend and override the built-in defaults.
func RegisterModels(registry *Registry, mf *legacy.MappingFile) error {
	overrides := func(table string) (legacy.AliasMap, error) {
		if mf == nil {
			return nil, nil
		}
		return mf.For(table)
	}

	mocks, err := overrides("mocks")
	if err != nil {
		return err
	}
	if _, err := registry.Register(&models.LegacyRecord{}, models.LegacyRecordAliases.Extend(mocks)); err != nil {
		return err
	}

	special, err := overrides("special_mocks")
	if err != nil {
		return err
	}
	if _, err := registry.RegisterInherited(&models.LegacyRecord{}, &models.SpecialRecord{}, models.SpecialRecordAliases.Extend(special)); err != nil {
		return err
	}
	return nil
}

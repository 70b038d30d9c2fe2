package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/camden-git/legacymappings/database"
	"github.com/camden-git/legacymappings/models"
)

// ErrPrimaryKeyAssignment is returned when an attribute map tries to set the primary key.
var ErrPrimaryKeyAssignment = errors.New("primary key cannot be assigned")

// GormLegacyRecordRepository handles database operations for LegacyRecord entities
type GormLegacyRecordRepository struct {
	db    *gorm.DB
	model *database.Model
}

// NewGormLegacyRecordRepository creates a repository using the 'mocks'
// configuration found in registry.
func NewGormLegacyRecordRepository(db *gorm.DB, registry *database.Registry) (LegacyRecordRepositoryInterface, error) {
	m, err := registry.ModelFor(&models.LegacyRecord{})
	if err != nil {
		return nil, err
	}
	return &GormLegacyRecordRepository{db: db, model: m}, nil
}

func (r *GormLegacyRecordRepository) Model() *database.Model {
	return r.model
}

func (r *GormLegacyRecordRepository) assign(ctx context.Context, record *models.LegacyRecord, attrs map[string]interface{}) error {
	rec, err := r.model.Record(ctx, record)
	if err != nil {
		return err
	}
	for name, value := range attrs {
		if r.model.Resolver.RealName(name) == r.model.Resolver.PrimaryKey() {
			return fmt.Errorf("%w: %s", ErrPrimaryKeyAssignment, name)
		}
		if err := rec.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Create builds a record from alias- or column-named attributes and inserts it
func (r *GormLegacyRecordRepository) Create(attrs map[string]interface{}) (*models.LegacyRecord, error) {
	var record models.LegacyRecord
	if err := r.assign(context.Background(), &record, attrs); err != nil {
		return nil, err
	}
	if err := r.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create legacy record: %w", err)
	}
	return &record, nil
}

// GetByID retrieves a record by its ID
func (r *GormLegacyRecordRepository) GetByID(id uint) (*models.LegacyRecord, error) {
	var record models.LegacyRecord
	err := r.db.First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get legacy record by ID %d: %w", id, err)
	}
	return &record, nil
}

// Find retrieves the records matching every condition, ordered by ID
func (r *GormLegacyRecordRepository) Find(conds ...interface{}) ([]models.LegacyRecord, error) {
	var records []models.LegacyRecord
	err := r.db.Scopes(r.model.Where(conds...)).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find legacy records: %w", err)
	}
	return records, nil
}

// UpdateAttributes assigns attrs to the record and saves the changed columns
func (r *GormLegacyRecordRepository) UpdateAttributes(id uint, attrs map[string]interface{}) (*models.LegacyRecord, error) {
	var record models.LegacyRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		if err := r.assign(tx.Statement.Context, &record, attrs); err != nil {
			return err
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update legacy record %d: %w", id, err)
	}
	return &record, nil
}

// Delete removes a record by its ID
func (r *GormLegacyRecordRepository) Delete(id uint) error {
	res := r.db.Delete(&models.LegacyRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete legacy record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Attributes returns the record keyed by public column names
func (r *GormLegacyRecordRepository) Attributes(record *models.LegacyRecord) (map[string]interface{}, error) {
	rec, err := r.model.Record(context.Background(), record)
	if err != nil {
		return nil, err
	}
	return rec.Public()
}

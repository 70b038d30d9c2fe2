package repository

import (
	"github.com/camden-git/legacymappings/database"
	"github.com/camden-git/legacymappings/models"
)

// LegacyRecordRepositoryInterface defines the methods for legacy record data
// operations. Attribute maps and conditions may use alias or column names.
type LegacyRecordRepositoryInterface interface {
	Create(attrs map[string]interface{}) (*models.LegacyRecord, error)
	GetByID(id uint) (*models.LegacyRecord, error)
	Find(conds ...interface{}) ([]models.LegacyRecord, error)
	UpdateAttributes(id uint, attrs map[string]interface{}) (*models.LegacyRecord, error)
	Delete(id uint) error
	Attributes(record *models.LegacyRecord) (map[string]interface{}, error)
	Model() *database.Model
}

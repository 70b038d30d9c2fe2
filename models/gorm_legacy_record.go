package models

import "github.com/camden-git/legacymappings/legacy"

// LegacyRecord is a row of the pre-existing 'mocks' table. Its columns keep
// their historical names; consumers use the aliases in LegacyRecordAliases.
type LegacyRecord struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	LegacyA string  `gorm:"column:legacy_a;not null;default:''" json:"legacy_a"`
	LegacyB *int64  `gorm:"column:legacy_b" json:"legacy_b,omitempty"` // Nullable, Unix timestamp
	LegacyC *string `gorm:"column:legacy_c" json:"legacy_c,omitempty"` // Nullable
}

// TableName explicitly sets the table name for GORM.
func (LegacyRecord) TableName() string {
	return "mocks"
}

// LegacyRecordAliases is the default alias map of the 'mocks' table.
var LegacyRecordAliases = legacy.AliasMap{
	"legacy_a": "railsy_named_attribute",
	"legacy_b": "created_on",
}

// SpecialRecord lives in 'special_mocks', a later copy of 'mocks' with one
// extra column. It inherits the aliases of LegacyRecord.
type SpecialRecord struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	LegacyA string  `gorm:"column:legacy_a;not null;default:''" json:"legacy_a"`
	LegacyB *int64  `gorm:"column:legacy_b" json:"legacy_b,omitempty"`
	LegacyC *string `gorm:"column:legacy_c" json:"legacy_c,omitempty"`
	LegacyD bool    `gorm:"column:legacy_d;not null;default:false" json:"legacy_d"`
}

// TableName explicitly sets the table name for GORM.
func (SpecialRecord) TableName() string {
	return "special_mocks"
}

// SpecialRecordAliases extends LegacyRecordAliases.
var SpecialRecordAliases = legacy.AliasMap{
	"legacy_d": "is_featured",
}

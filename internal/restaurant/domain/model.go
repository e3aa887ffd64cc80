// Package domain contains the tenant model. A restaurant is the unit of
// data isolation; every scoped read carries its id.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is a tenant account.
type Restaurant struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	OwnerID         uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	Name            string    `gorm:"type:text;not null"`
	City            string    `gorm:"type:text"`
	DefaultCurrency string    `gorm:"column:default_currency;type:text;not null;default:'IQD'"`
	TargetMarginPct float64   `gorm:"column:target_margin_pct;not null;default:30"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Restaurant) TableName() string { return "restaurants" }

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Slug        string          `gorm:"size:128;uniqueIndex;not null"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency    string          `gorm:"size:8;not null;default:INR"`
	Category    string          `gorm:"size:64;index"`
	Active      bool            `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

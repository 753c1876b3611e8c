package model

import "time"

// PaymentEvent records a processed gateway callback. One row per captured
// payment makes duplicate callbacks detectable.
type PaymentEvent struct {
	EventID        string `gorm:"primaryKey;size:64;not null"`
	PaymentID      string `gorm:"size:64;uniqueIndex;not null"`
	GatewayOrderID string `gorm:"size:64;index"`
	Result         string `gorm:"size:32;not null"` // order_created
	CreatedAt      time.Time
}

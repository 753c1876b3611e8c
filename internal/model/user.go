package model

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Name         string `gorm:"size:128"`
	Phone        string `gorm:"size:32"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AddressType string

const (
	AddressBilling  AddressType = "billing"
	AddressShipping AddressType = "shipping"
)

// Address is a user's saved address. Orders never reference these rows
// directly; checkout copies the fields into the order so later edits here
// cannot alter order history.
type Address struct {
	ID         uint        `gorm:"primaryKey"`
	UserID     uint        `gorm:"index;not null"`
	Type       AddressType `gorm:"size:16;not null"`
	IsDefault  bool        `gorm:"not null;default:false"`
	Name       string      `gorm:"size:128;not null"`
	Company    string      `gorm:"size:128"`
	Line1      string      `gorm:"size:255;not null"`
	Line2      string      `gorm:"size:255"`
	City       string      `gorm:"size:64;not null"`
	State      string      `gorm:"size:64"`
	PostalCode string      `gorm:"size:16"`
	Country    string      `gorm:"size:64;not null"`
	Phone      string      `gorm:"size:32"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t AddressType) Valid() bool {
	return t == AddressBilling || t == AddressShipping
}

package models

import "time"

// StoreDocument holds one named key-value document of the settings store.
type StoreDocument struct {
	Name      string `gorm:"primaryKey;size:255"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

package models

import "time"

// Vehicle is an ownership record maintained by the garage profile service.
type Vehicle struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerUserID uint   `gorm:"index;not null" json:"owner_user_id"`
	Make        string `gorm:"size:50" json:"make"`
	Model       string `gorm:"size:50" json:"model"`
	Year        int    `json:"year"`
	Plate       string `gorm:"size:20" json:"plate"`
	OwnerPhone  string `gorm:"size:20" json:"owner_phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

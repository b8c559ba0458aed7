package clinic

import "gorm.io/gorm"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Clinic struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null"`
	Phone  string `json:"phone"`
	Status string `json:"status" gorm:"default:active"`
}

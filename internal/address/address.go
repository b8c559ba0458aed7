package address

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EntityType tags which kind of entity an address belongs to. The table
// is shared across owners, so the tag plus EntityID is the owner key.
type EntityType string

const (
	EntityClinic  EntityType = "clinic"
	EntityDoctor  EntityType = "doctor"
	EntityPatient EntityType = "patient"
)

type Address struct {
	gorm.Model
	EntityType EntityType `json:"entity_type" gorm:"index:idx_addresses_owner"`
	EntityID   uint       `json:"entity_id" gorm:"index:idx_addresses_owner"`
	Line1      string     `json:"line1"`
	Line2      string     `json:"line2"`
	City       string     `json:"city"`
	Region     string     `json:"region"`
	PostalCode string     `json:"postal_code"`
	Country    string     `json:"country"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	IsPrimary  bool       `json:"is_primary"`
}

// Empty reports whether no address field was filled in. Callers use it
// to decide whether an address row should be written at all.
func (a *Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.City == "" &&
		a.Region == "" && a.PostalCode == "" && a.Country == ""
}

// FreeText flattens the address into a single line for geocoding.
func (a *Address) FreeText() string {
	text := ""
	for _, part := range []string{a.Line1, a.City, a.Region, a.PostalCode, a.Country} {
		if part == "" {
			continue
		}
		if text != "" {
			text += ", "
		}
		text += part
	}
	return text
}

// Upsert writes the primary address for (EntityType, EntityID),
// overwriting an existing row instead of adding a second one. Runs
// against whatever handle it is given, so it participates in the
// caller's transaction.
func Upsert(db *gorm.DB, addr *Address) error {
	var existing Address
	result := db.Where("entity_type = ? AND entity_id = ? AND is_primary = ?",
		addr.EntityType, addr.EntityID, true).First(&existing)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up address: %w", result.Error)
		}
		addr.IsPrimary = true
		if err := db.Create(addr).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	}

	addr.ID = existing.ID
	addr.CreatedAt = existing.CreatedAt
	addr.IsPrimary = true
	if err := db.Save(addr).Error; err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return nil
}

func GetPrimary(db *gorm.DB, entityType EntityType, entityID uint) (*Address, error) {
	var addr Address
	result := db.Where("entity_type = ? AND entity_id = ? AND is_primary = ?",
		entityType, entityID, true).First(&addr)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get address: %w", result.Error)
	}
	return &addr, nil
}

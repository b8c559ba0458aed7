package clinic

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/address"
)

type Storage interface {
	CreateClinic(clinic *Clinic) (uint, error)
	GetClinicByID(id uint) (*Clinic, error)
	ListClinics(status string) ([]Clinic, error)
	UpdateClinic(clinic *Clinic) error
	UpsertAddress(addr *address.Address) error
	GetAddress(entityType address.EntityType, entityID uint) (*address.Address, error)
}

type clinicStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &clinicStorage{db: db}
}

func (s *clinicStorage) CreateClinic(clinic *Clinic) (uint, error) {
	result := s.db.Create(clinic)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create clinic: %w", result.Error)
	}
	return clinic.ID, nil
}

func (s *clinicStorage) GetClinicByID(id uint) (*Clinic, error) {
	var clinic Clinic
	result := s.db.First(&clinic, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clinic: %w", result.Error)
	}
	return &clinic, nil
}

func (s *clinicStorage) ListClinics(status string) ([]Clinic, error) {
	var clinics []Clinic
	query := s.db
	if status != "" {
		query = query.Where("status = ?", status)
	}
	result := query.Order("id").Find(&clinics)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", result.Error)
	}
	return clinics, nil
}

func (s *clinicStorage) UpdateClinic(clinic *Clinic) error {
	result := s.db.Save(clinic)
	if result.Error != nil {
		return fmt.Errorf("failed to update clinic: %w", result.Error)
	}
	return nil
}

func (s *clinicStorage) UpsertAddress(addr *address.Address) error {
	return address.Upsert(s.db, addr)
}

func (s *clinicStorage) GetAddress(entityType address.EntityType, entityID uint) (*address.Address, error) {
	return address.GetPrimary(s.db, entityType, entityID)
}

package clinic

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/geocode"
)

type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Result, error)
}

type ClinicInput struct {
	Name    string           `json:"name" binding:"required"`
	Phone   string           `json:"phone"`
	Address *address.Address `json:"address,omitempty"`
}

type ClinicService interface {
	AddClinic(ctx context.Context, input ClinicInput) (*Clinic, error)
	GetClinic(id uint) (*Clinic, *address.Address, error)
	ListClinics(status string) ([]Clinic, error)
	UpdateClinic(ctx context.Context, id uint, input ClinicInput) (*Clinic, error)
	DeactivateClinic(id uint) error
}

type clinicService struct {
	storage  Storage
	geocoder Geocoder
	logger   *logrus.Entry
}

func NewService(storage Storage, geocoder Geocoder, log *logrus.Entry) ClinicService {
	return &clinicService{
		storage:  storage,
		geocoder: geocoder,
		logger:   log,
	}
}

func (s *clinicService) AddClinic(ctx context.Context, input ClinicInput) (*Clinic, error) {
	clinic := Clinic{
		Name:   input.Name,
		Phone:  input.Phone,
		Status: StatusActive,
	}

	id, err := s.storage.CreateClinic(&clinic)
	if err != nil {
		return nil, err
	}

	if err := s.saveAddress(ctx, id, input.Address); err != nil {
		return nil, err
	}

	return &clinic, nil
}

func (s *clinicService) GetClinic(id uint) (*Clinic, *address.Address, error) {
	clinic, err := s.storage.GetClinicByID(id)
	if err != nil {
		return nil, nil, err
	}
	if clinic == nil {
		return nil, nil, errClinicNotFound
	}

	addr, err := s.storage.GetAddress(address.EntityClinic, clinic.ID)
	if err != nil {
		return nil, nil, err
	}

	return clinic, addr, nil
}

func (s *clinicService) ListClinics(status string) ([]Clinic, error) {
	return s.storage.ListClinics(status)
}

func (s *clinicService) UpdateClinic(ctx context.Context, id uint, input ClinicInput) (*Clinic, error) {
	clinic, err := s.storage.GetClinicByID(id)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, errClinicNotFound
	}
	if clinic.Status == StatusInactive {
		return nil, errClinicInactive
	}

	clinic.Name = input.Name
	clinic.Phone = input.Phone

	if err := s.storage.UpdateClinic(clinic); err != nil {
		return nil, err
	}

	if err := s.saveAddress(ctx, clinic.ID, input.Address); err != nil {
		return nil, err
	}

	return clinic, nil
}

// DeactivateClinic flips the status flag. Clinic rows are never
// physically deleted.
func (s *clinicService) DeactivateClinic(id uint) error {
	clinic, err := s.storage.GetClinicByID(id)
	if err != nil {
		return err
	}
	if clinic == nil {
		return errClinicNotFound
	}
	if clinic.Status == StatusInactive {
		return errClinicInactive
	}

	clinic.Status = StatusInactive
	return s.storage.UpdateClinic(clinic)
}

func (s *clinicService) saveAddress(ctx context.Context, clinicID uint, addr *address.Address) error {
	if addr == nil || addr.Empty() {
		return nil
	}

	addr.EntityType = address.EntityClinic
	addr.EntityID = clinicID
	s.enrichCoordinates(ctx, addr)

	return s.storage.UpsertAddress(addr)
}

// enrichCoordinates fills missing coordinates from the geocoder.
// Failures are logged and swallowed; the address is saved either way.
func (s *clinicService) enrichCoordinates(ctx context.Context, addr *address.Address) {
	if s.geocoder == nil || addr.Latitude != nil || addr.Longitude != nil {
		return
	}

	results, err := s.geocoder.Search(ctx, addr.FreeText())
	if err != nil {
		s.logger.Warnf("geocode lookup failed: %v", err)
		return
	}
	if len(results) == 0 {
		return
	}

	addr.Latitude = &results[0].Latitude
	addr.Longitude = &results[0].Longitude
}

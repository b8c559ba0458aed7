package invite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/clinic"
	"github.com/clinicore/clinic-service/pkg/postgres"
)

// errCodeCollision is returned by CreateInvite when the generated code
// already exists; the service regenerates and retries.
var errCodeCollision = errors.New("invite code already exists")

type Storage interface {
	CreateInvite(inv *Invite) (uint, error)
	GetByCode(code string) (*Invite, error)
	GetClinicName(clinicID uint) (string, error)
	ListByClinic(clinicID uint) ([]Invite, error)
	Deactivate(code string) error
}

type inviteStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &inviteStorage{db: db}
}

func (s *inviteStorage) CreateInvite(inv *Invite) (uint, error) {
	result := s.db.Create(inv)
	if result.Error != nil {
		if _, ok := postgres.UniqueViolation(result.Error); ok {
			return 0, errCodeCollision
		}
		return 0, fmt.Errorf("failed to create invite: %w", result.Error)
	}
	return inv.ID, nil
}

func (s *inviteStorage) GetByCode(code string) (*Invite, error) {
	var inv Invite
	result := s.db.First(&inv, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", result.Error)
	}
	return &inv, nil
}

func (s *inviteStorage) GetClinicName(clinicID uint) (string, error) {
	var c clinic.Clinic
	result := s.db.First(&c, clinicID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get clinic: %w", result.Error)
	}
	return c.Name, nil
}

func (s *inviteStorage) ListByClinic(clinicID uint) ([]Invite, error) {
	var invites []Invite
	result := s.db.Where("clinic_id = ?", clinicID).Order("id").Find(&invites)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list invites: %w", result.Error)
	}
	return invites, nil
}

func (s *inviteStorage) Deactivate(code string) error {
	result := s.db.Model(&Invite{}).Where("code = ?", code).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errInviteNotFound
	}
	return nil
}

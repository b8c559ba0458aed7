package account

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/invite"
	"github.com/clinicore/clinic-service/pkg/postgres"
)

// constraintFields maps postgres unique-constraint names to the user
// facing field they protect.
var constraintFields = map[string]string{
	"idx_users_email":             "email",
	"idx_patient_profiles_tax_id": "tax_id",
	"idx_doctor_profiles_license": "license_number",
	"uni_users_email":             "email",
	"uni_patient_profiles_tax_id": "tax_id",
	"uni_doctor_profiles_license": "license_number",
}

type Storage interface {
	// Transaction runs fn against a Storage bound to one database
	// transaction; any error from fn rolls the whole unit back.
	Transaction(fn func(tx Storage) error) error

	GetUserByEmail(email string) (*User, error)
	GetUserByID(id uint) (*User, error)
	CreateUser(user *User) (uint, error)

	CreateDoctorProfile(profile *DoctorProfile) (uint, error)
	CreatePatientProfile(profile *PatientProfile) (uint, error)
	GetDoctorProfileByUserID(userID uint) (*DoctorProfile, error)
	GetPatientProfileByUserID(userID uint) (*PatientProfile, error)

	CreateMembership(m *ClinicMembership) error
	CreateDoctorClinic(link *DoctorClinic) error
	CreateClinicPatient(link *ClinicPatient) error
	FirstActiveMembership(userID uint) (*ClinicMembership, error)
	FirstActiveClinicPatient(patientProfileID uint) (*ClinicPatient, error)

	UpsertAddress(addr *address.Address) error

	GetInviteByCode(code string) (*invite.Invite, error)
	// ConsumeInvite increments the usage counter in a single
	// conditional update. It reports false when the invite is missing,
	// inactive or expired, which under concurrent redemption is how
	// exactly one caller wins.
	ConsumeInvite(code string) (bool, error)
}

type accountStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &accountStorage{db: db}
}

func (s *accountStorage) Transaction(fn func(tx Storage) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&accountStorage{db: tx})
	})
}

func (s *accountStorage) GetUserByEmail(email string) (*User, error) {
	var user User
	result := s.db.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", result.Error)
	}
	return &user, nil
}

func (s *accountStorage) GetUserByID(id uint) (*User, error) {
	var user User
	result := s.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &user, nil
}

func (s *accountStorage) CreateUser(user *User) (uint, error) {
	result := s.db.Create(user)
	if result.Error != nil {
		return 0, translateConflict(result.Error, "failed to create user")
	}
	return user.ID, nil
}

func (s *accountStorage) CreateDoctorProfile(profile *DoctorProfile) (uint, error) {
	result := s.db.Create(profile)
	if result.Error != nil {
		return 0, translateConflict(result.Error, "failed to create doctor profile")
	}
	return profile.ID, nil
}

func (s *accountStorage) CreatePatientProfile(profile *PatientProfile) (uint, error) {
	result := s.db.Create(profile)
	if result.Error != nil {
		return 0, translateConflict(result.Error, "failed to create patient profile")
	}
	return profile.ID, nil
}

func (s *accountStorage) GetDoctorProfileByUserID(userID uint) (*DoctorProfile, error) {
	var profile DoctorProfile
	result := s.db.First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", result.Error)
	}
	return &profile, nil
}

func (s *accountStorage) GetPatientProfileByUserID(userID uint) (*PatientProfile, error) {
	var profile PatientProfile
	result := s.db.First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", result.Error)
	}
	return &profile, nil
}

func (s *accountStorage) CreateMembership(m *ClinicMembership) error {
	if err := s.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

func (s *accountStorage) CreateDoctorClinic(link *DoctorClinic) error {
	if err := s.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create doctor-clinic link: %w", err)
	}
	return nil
}

func (s *accountStorage) CreateClinicPatient(link *ClinicPatient) error {
	if err := s.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create clinic-patient link: %w", err)
	}
	return nil
}

func (s *accountStorage) FirstActiveMembership(userID uint) (*ClinicMembership, error) {
	var m ClinicMembership
	result := s.db.Where("user_id = ? AND is_active = ?", userID, true).Order("id").First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", result.Error)
	}
	return &m, nil
}

func (s *accountStorage) FirstActiveClinicPatient(patientProfileID uint) (*ClinicPatient, error) {
	var link ClinicPatient
	result := s.db.Where("patient_profile_id = ? AND is_active = ?", patientProfileID, true).Order("id").First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clinic-patient link: %w", result.Error)
	}
	return &link, nil
}

func (s *accountStorage) UpsertAddress(addr *address.Address) error {
	return address.Upsert(s.db, addr)
}

func (s *accountStorage) GetInviteByCode(code string) (*invite.Invite, error) {
	var inv invite.Invite
	result := s.db.First(&inv, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", result.Error)
	}
	return &inv, nil
}

func (s *accountStorage) ConsumeInvite(code string) (bool, error) {
	result := s.db.Model(&invite.Invite{}).
		Where("code = ? AND is_active = ?", code, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume invite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func translateConflict(err error, msg string) error {
	if constraint, ok := postgres.UniqueViolation(err); ok {
		if field, known := constraintFields[constraint]; known {
			return &ConflictError{Field: field}
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

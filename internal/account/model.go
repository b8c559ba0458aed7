package account

import (
	"time"

	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/auth"
)

// User is the login identity: one per natural person who can
// authenticate. Role is set at registration from the invite and does
// not change afterwards. Super marks the platform supervisor.
type User struct {
	gorm.Model
	Name     string    `json:"name"`
	Email    string    `json:"email" gorm:"uniqueIndex:idx_users_email"`
	Password string    `json:"-"`
	Role     auth.Role `json:"role"`
	Super    bool      `json:"-"`
}

type DoctorProfile struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex"`
	LicenseNumber  string `json:"license_number" gorm:"uniqueIndex:idx_doctor_profiles_license"`
	LicenseRegion  string `json:"license_region"`
	Specialization string `json:"specialization"`
}

// PatientProfile duplicates name, email and phone from the form rather
// than referencing the User row, mirroring how clinic staff expect
// patient records to stand on their own.
type PatientProfile struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"uniqueIndex"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	TaxID     string     `json:"tax_id" gorm:"uniqueIndex:idx_patient_profiles_tax_id"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Sex       string     `json:"sex"`
}

// ClinicMembership scopes a staff identity's role within one clinic.
// Its active flag is independent of the identity's existence.
type ClinicMembership struct {
	gorm.Model
	UserID   uint      `json:"user_id"`
	ClinicID uint      `json:"clinic_id"`
	Role     auth.Role `json:"role"`
	IsActive bool      `json:"is_active"`
}

// DoctorClinic tracks a doctor profile per clinic, separately from the
// staff membership the same person may also hold.
type DoctorClinic struct {
	gorm.Model
	DoctorProfileID uint `json:"doctor_profile_id"`
	ClinicID        uint `json:"clinic_id"`
	IsActive        bool `json:"is_active"`
}

// ClinicPatient links a patient profile to a clinic, and to the
// issuing doctor when registration came through a doctor-scoped invite.
type ClinicPatient struct {
	gorm.Model
	PatientProfileID uint  `json:"patient_profile_id"`
	ClinicID         uint  `json:"clinic_id"`
	DoctorProfileID  *uint `json:"doctor_profile_id,omitempty"`
	IsActive         bool  `json:"is_active"`
}

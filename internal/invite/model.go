package invite

import (
	"time"

	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/auth"
)

// Invite grants the right to register under a role, optionally scoped
// to a clinic. A nil ClinicID means a global invite, which policy
// restricts to independent-doctor onboarding. DoctorID carries the
// issuing doctor on doctor-scoped patient invites, so the registering
// patient ends up linked to that doctor.
type Invite struct {
	gorm.Model
	Code      string     `json:"code" gorm:"uniqueIndex:idx_invites_code"`
	Role      auth.Role  `json:"role" gorm:"not null"`
	ClinicID  *uint      `json:"clinic_id,omitempty"`
	DoctorID  *uint      `json:"doctor_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	UsedCount uint       `json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (i *Invite) IsExpired() bool {
	return i.ExpiresAt != nil && time.Now().After(*i.ExpiresAt)
}

// Redeemable reports whether a registration may still consume this
// invite. Invites are never deleted, only deactivated.
func (i *Invite) Redeemable() bool {
	return i.IsActive && !i.IsExpired()
}

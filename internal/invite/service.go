package invite

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

const codeRetries = 3

type IssueRequest struct {
	Role      auth.Role `json:"role"`
	ClinicID  *uint     `json:"clinic_id,omitempty"`
	DoctorID  *uint     `json:"doctor_id,omitempty"`
	ExpiresIn int       `json:"expires_in_hours,omitempty"`
}

// Resolution is what the registration page shows before the visitor
// commits: the role the invite grants and, when clinic-scoped, the
// clinic's display name.
type Resolution struct {
	Role       auth.Role `json:"role"`
	ClinicName string    `json:"clinic_name,omitempty"`
}

type InviteService interface {
	Issue(issuer *auth.SessionClaims, req IssueRequest) (*Invite, error)
	Resolve(code string) (*Resolution, error)
	Revoke(issuer *auth.SessionClaims, code string) error
	ListByClinic(issuer *auth.SessionClaims, clinicID uint) ([]Invite, error)
}

type inviteService struct {
	storage Storage
	logger  *logrus.Entry
}

func NewService(storage Storage, log *logrus.Entry) InviteService {
	return &inviteService{
		storage: storage,
		logger:  log,
	}
}

// Issue applies the scoping rules in order: admin-role invites and
// clinic-less invites need the platform supervisor; clinic-less invites
// only onboard independent doctors; everyone else must be an admin of
// the clinic the invite targets.
func (s *inviteService) Issue(issuer *auth.SessionClaims, req IssueRequest) (*Invite, error) {
	if _, err := auth.ParseRole(string(req.Role)); err != nil {
		return nil, err
	}

	// The member role is what registration without a code lands on; an
	// invite never grants it.
	if req.Role == auth.RoleMember {
		return nil, errUnsupportedRole
	}

	if req.Role == auth.RoleAdmin && !issuer.Super {
		return nil, errUnauthorized
	}

	if req.ClinicID == nil {
		if !issuer.Super {
			return nil, errUnauthorized
		}
		if req.Role != auth.RoleDoctor {
			return nil, errUnsupportedScope
		}
	} else if !issuer.Super {
		if issuer.Role != auth.RoleAdmin && issuer.Role != auth.RoleDoctor {
			return nil, errUnauthorized
		}
		if issuer.ClinicID == nil || *issuer.ClinicID != *req.ClinicID {
			return nil, errUnauthorized
		}
		// A doctor may only hand out patient invites for their own clinic.
		if issuer.Role == auth.RoleDoctor && req.Role != auth.RolePatient {
			return nil, errUnauthorized
		}
	}

	if req.DoctorID != nil && req.Role != auth.RolePatient {
		return nil, errUnsupportedScope
	}

	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresIn) * time.Hour)
		expiresAt = &t
	}

	// The code space is large, but a collision is still cheap to handle:
	// regenerate on the unique-constraint signal.
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := newCode()
		if err != nil {
			return nil, err
		}

		inv := &Invite{
			Code:      code,
			Role:      req.Role,
			ClinicID:  req.ClinicID,
			DoctorID:  req.DoctorID,
			IsActive:  true,
			UsedCount: 0,
			ExpiresAt: expiresAt,
		}

		_, err = s.storage.CreateInvite(inv)
		if err == errCodeCollision {
			s.logger.Warnf("invite code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}
		return inv, nil
	}

	return nil, errCodeGeneration
}

// Resolve is a pure read. An unknown code resolves to errInviteNotFound
// without distinguishing not-found from malformed input.
func (s *inviteService) Resolve(code string) (*Resolution, error) {
	inv, err := s.storage.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.Redeemable() {
		return nil, errInviteNotFound
	}

	res := &Resolution{Role: inv.Role}
	if inv.ClinicID != nil {
		name, err := s.storage.GetClinicName(*inv.ClinicID)
		if err != nil {
			return nil, err
		}
		res.ClinicName = name
	}

	return res, nil
}

func (s *inviteService) Revoke(issuer *auth.SessionClaims, code string) error {
	inv, err := s.storage.GetByCode(code)
	if err != nil {
		return err
	}
	if inv == nil {
		return errInviteNotFound
	}

	if err := s.authorizeManage(issuer, inv.ClinicID); err != nil {
		return err
	}

	return s.storage.Deactivate(code)
}

func (s *inviteService) ListByClinic(issuer *auth.SessionClaims, clinicID uint) ([]Invite, error) {
	if err := s.authorizeManage(issuer, &clinicID); err != nil {
		return nil, err
	}
	return s.storage.ListByClinic(clinicID)
}

func (s *inviteService) authorizeManage(issuer *auth.SessionClaims, clinicID *uint) error {
	if issuer.Super {
		return nil
	}
	if clinicID == nil {
		return errUnauthorized
	}
	if issuer.Role != auth.RoleAdmin || issuer.ClinicID == nil || *issuer.ClinicID != *clinicID {
		return errUnauthorized
	}
	return nil
}

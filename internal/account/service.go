package account

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/auth"
	"github.com/clinicore/clinic-service/internal/geocode"
	"github.com/clinicore/clinic-service/internal/invite"
)

const bcryptCost = 12

type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Result, error)
}

type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(email, password string) (string, *auth.SessionClaims, error)
	GetUserByID(id uint) (*User, error)
	PatientProfileID(userID uint) (uint, error)
	DoctorProfileID(userID uint) (uint, error)
}

type accountService struct {
	storage   Storage
	geocoder  Geocoder
	logger    *logrus.Entry
	jwtSecret string
}

func NewService(storage Storage, geocoder Geocoder, log *logrus.Entry, jwtSecret string) AccountService {
	return &accountService{
		storage:   storage,
		geocoder:  geocoder,
		logger:    log,
		jwtSecret: jwtSecret,
	}
}

func (s *accountService) GetUserByID(id uint) (*User, error) {
	user, err := s.storage.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}

func (s *accountService) PatientProfileID(userID uint) (uint, error) {
	profile, err := s.storage.GetPatientProfileByUserID(userID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, errProfileNotFound
	}
	return profile.ID, nil
}

func (s *accountService) DoctorProfileID(userID uint) (uint, error) {
	profile, err := s.storage.GetDoctorProfileByUserID(userID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, errProfileNotFound
	}
	return profile.ID, nil
}

// Register creates the identity, the role-specific profile, the clinic
// links and the optional address as one transaction, and consumes the
// invite inside that same transaction. Nothing is left behind on
// failure.
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if verr := input.validateShape(); verr != nil {
		return nil, verr
	}

	existing, err := s.storage.GetUserByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errEmailTaken
	}

	role := auth.RoleMember
	var inv *invite.Invite
	if input.InviteCode != "" {
		inv, err = s.storage.GetInviteByCode(input.InviteCode)
		if err != nil {
			return nil, err
		}
		if inv == nil || !inv.Redeemable() {
			return nil, errInvalidInvite
		}
		role = inv.Role
	}

	if verr := input.validateForRole(role); verr != nil {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, errFailedHashPassword
	}

	user := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     role,
	}

	// Geocoding happens before the transaction opens; an upstream
	// round trip must never hold a database transaction.
	addr := input.Address.toAddress()
	if !addr.Empty() {
		s.enrichCoordinates(ctx, addr)
	}

	err = s.storage.Transaction(func(tx Storage) error {
		if _, err := tx.CreateUser(user); err != nil {
			return err
		}

		entityType, entityID, err := s.createRoleEntities(tx, user, inv, input)
		if err != nil {
			return err
		}

		if err := saveAddress(tx, entityType, entityID, addr); err != nil {
			return err
		}

		if inv != nil {
			consumed, err := tx.ConsumeInvite(inv.Code)
			if err != nil {
				return err
			}
			if !consumed {
				// Someone else spent or revoked the invite since the
				// read above; roll everything back.
				return errInvalidInvite
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("registered user %d with role %s", user.ID, user.Role)
	return user, nil
}

// createRoleEntities branches on the invite's role and returns the
// owner key for an address row, when a profile entity exists to hang
// one off.
func (s *accountService) createRoleEntities(tx Storage, user *User, inv *invite.Invite, input RegisterInput) (address.EntityType, uint, error) {
	switch user.Role {
	case auth.RoleDoctor:
		if inv != nil && inv.ClinicID != nil {
			err := tx.CreateMembership(&ClinicMembership{
				UserID:   user.ID,
				ClinicID: *inv.ClinicID,
				Role:     auth.RoleDoctor,
				IsActive: true,
			})
			if err != nil {
				return "", 0, err
			}
		}

		profile := &DoctorProfile{
			UserID:         user.ID,
			LicenseNumber:  input.LicenseNumber,
			LicenseRegion:  input.LicenseRegion,
			Specialization: input.Specialization,
		}
		profileID, err := tx.CreateDoctorProfile(profile)
		if err != nil {
			return "", 0, err
		}

		if inv != nil && inv.ClinicID != nil {
			err := tx.CreateDoctorClinic(&DoctorClinic{
				DoctorProfileID: profileID,
				ClinicID:        *inv.ClinicID,
				IsActive:        true,
			})
			if err != nil {
				return "", 0, err
			}
		}

		return address.EntityDoctor, profileID, nil

	case auth.RolePatient:
		profile := &PatientProfile{
			UserID:    user.ID,
			Name:      input.Name,
			Email:     input.Email,
			Phone:     input.Phone,
			TaxID:     input.TaxID,
			BirthDate: input.birthDate(),
			Sex:       input.Sex,
		}
		profileID, err := tx.CreatePatientProfile(profile)
		if err != nil {
			return "", 0, err
		}

		if inv != nil && inv.ClinicID != nil {
			err := tx.CreateClinicPatient(&ClinicPatient{
				PatientProfileID: profileID,
				ClinicID:         *inv.ClinicID,
				DoctorProfileID:  inv.DoctorID,
				IsActive:         true,
			})
			if err != nil {
				return "", 0, err
			}
		}

		return address.EntityPatient, profileID, nil

	case auth.RoleAdmin:
		if inv != nil && inv.ClinicID != nil {
			err := tx.CreateMembership(&ClinicMembership{
				UserID:   user.ID,
				ClinicID: *inv.ClinicID,
				Role:     auth.RoleAdmin,
				IsActive: true,
			})
			if err != nil {
				return "", 0, err
			}
		}
		return "", 0, nil

	case auth.RoleMember:
		return "", 0, nil
	}

	return "", 0, nil
}

// saveAddress writes the registration address when one was supplied
// and a profile entity exists to own it. Geocoding is best-effort and
// happens before the write.
func saveAddress(tx Storage, entityType address.EntityType, entityID uint, addr *address.Address) error {
	if addr.Empty() || entityType == "" {
		return nil
	}

	addr.EntityType = entityType
	addr.EntityID = entityID

	return tx.UpsertAddress(addr)
}

// enrichCoordinates fills missing coordinates from the geocoder.
// Failures are logged and swallowed; the address is saved either way.
func (s *accountService) enrichCoordinates(ctx context.Context, addr *address.Address) {
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

// Login resolves credentials to session claims. Absent users, accounts
// without a password hash and wrong passwords all fail the same way, so
// responses cannot be used to enumerate accounts.
func (s *accountService) Login(email, password string) (string, *auth.SessionClaims, error) {
	user, err := s.storage.GetUserByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.Password == "" {
		return "", nil, errFailedPasswordOrEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errFailedPasswordOrEmail
	}

	clinicID, err := s.resolveClinicScope(user)
	if err != nil {
		return "", nil, err
	}

	claims := &auth.SessionClaims{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		ClinicID: clinicID,
		Super:    user.Super,
	}

	token, err := auth.NewToken(claims, s.jwtSecret)
	if err != nil {
		return "", nil, errFailedCreateToken
	}

	return token, claims, nil
}

// resolveClinicScope picks the clinic the session operates under:
// patients through their first active clinic-patient link, staff
// through their first active membership. Nil for independent doctors
// and members.
func (s *accountService) resolveClinicScope(user *User) (*uint, error) {
	if user.Role == auth.RolePatient {
		profile, err := s.storage.GetPatientProfileByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, nil
		}

		link, err := s.storage.FirstActiveClinicPatient(profile.ID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			return nil, nil
		}
		return &link.ClinicID, nil
	}

	membership, err := s.storage.FirstActiveMembership(user.ID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, nil
	}
	return &membership.ClinicID, nil
}

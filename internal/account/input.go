package account

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/auth"
)

const birthDateLayout = "2006-01-02"

var validate = validator.New()

type AddressInput struct {
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2"`
	City       string   `json:"city"`
	Region     string   `json:"region"`
	PostalCode string   `json:"postal_code"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (a *AddressInput) toAddress() *address.Address {
	return &address.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
	}
}

// RegisterInput is the full registration form. Which of the
// role-dependent fields are required is only known once the invite is
// resolved, so those are checked in the service, not by tags.
type RegisterInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	InviteCode string `json:"invite_code"`

	LicenseNumber  string `json:"license_number"`
	LicenseRegion  string `json:"license_region"`
	Specialization string `json:"specialization"`

	TaxID     string `json:"tax_id"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`

	Address AddressInput `json:"address"`
}

// validateShape runs the structural checks and returns per-field errors.
func (in *RegisterInput) validateShape() *ValidationError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	verr := newValidationError()
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			switch fe.Tag() {
			case "required":
				verr.Fields[fe.Field()] = "is required"
			case "email":
				verr.Fields[fe.Field()] = "must be a valid email address"
			case "min":
				verr.Fields[fe.Field()] = "is too short"
			default:
				verr.Fields[fe.Field()] = "is invalid"
			}
		}
	} else {
		verr.Fields["input"] = "is invalid"
	}
	return verr
}

// validateForRole checks the role-dependent bundle once the target role
// is known.
func (in *RegisterInput) validateForRole(role auth.Role) *ValidationError {
	verr := newValidationError()

	switch role {
	case auth.RoleDoctor:
		if in.LicenseNumber == "" {
			verr.Fields["license_number"] = "is required"
		}
		if in.LicenseRegion == "" {
			verr.Fields["license_region"] = "is required"
		}
	case auth.RolePatient:
		if in.TaxID == "" {
			verr.Fields["tax_id"] = "is required"
		}
		if in.Phone == "" {
			verr.Fields["phone"] = "is required"
		}
		if in.Sex == "" {
			verr.Fields["sex"] = "is required"
		}
		if in.BirthDate == "" {
			verr.Fields["birth_date"] = "is required"
		} else if _, err := time.Parse(birthDateLayout, in.BirthDate); err != nil {
			verr.Fields["birth_date"] = "must be formatted YYYY-MM-DD"
		}
	case auth.RoleAdmin, auth.RoleMember:
		// No extra fields.
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func (in *RegisterInput) birthDate() *time.Time {
	if in.BirthDate == "" {
		return nil
	}
	t, err := time.Parse(birthDateLayout, in.BirthDate)
	if err != nil {
		return nil
	}
	return &t
}

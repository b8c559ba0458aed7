package account

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/appointment"
	"github.com/clinicore/clinic-service/internal/auth"
	"github.com/clinicore/clinic-service/internal/clinic"
	"github.com/clinicore/clinic-service/internal/invite"
)

// RunMigration creates the schema and seeds the platform supervisor.
// The supervisor is the only account that can bootstrap clinics and
// admin invites on a fresh install.
func RunMigration(db *gorm.DB, supervisorEmail, supervisorPassword string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.AutoMigrate(
			&User{},
			&DoctorProfile{},
			&PatientProfile{},
			&ClinicMembership{},
			&DoctorClinic{},
			&ClinicPatient{},
			&clinic.Clinic{},
			&invite.Invite{},
			&address.Address{},
			&appointment.Appointment{},
		)
		if err != nil {
			return err
		}

		var existing User
		result := tx.First(&existing, "email = ?", supervisorEmail)
		if result.Error == nil {
			return nil
		}
		if result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(supervisorPassword), bcryptCost)
		if err != nil {
			return err
		}

		return tx.Create(&User{
			Name:     "Platform Supervisor",
			Email:    supervisorEmail,
			Password: string(hash),
			Role:     auth.RoleAdmin,
			Super:    true,
		}).Error
	})
}

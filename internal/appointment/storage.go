package appointment

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Storage interface {
	CreateAppointment(appt *Appointment) (uint, error)
	GetByRef(ref string) (*Appointment, error)
	UpdateAppointment(appt *Appointment) error
	ListByPatient(patientProfileID uint) ([]Appointment, error)
	ListByDoctorDate(doctorProfileID uint, date time.Time) ([]Appointment, error)
	SlotTaken(doctorProfileID uint, date time.Time, slot string) (bool, error)

	CountByStatus(clinicID uint) (*StatusCounts, error)
	DoctorWiseBookings(clinicID uint) ([]DoctorBookings, error)
	ClinicWiseBookings() ([]ClinicBookings, error)
}

type appointmentStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &appointmentStorage{db: db}
}

func (s *appointmentStorage) CreateAppointment(appt *Appointment) (uint, error) {
	result := s.db.Create(appt)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", result.Error)
	}
	return appt.ID, nil
}

func (s *appointmentStorage) GetByRef(ref string) (*Appointment, error) {
	var appt Appointment
	result := s.db.First(&appt, "ref = ?", ref)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", result.Error)
	}
	return &appt, nil
}

func (s *appointmentStorage) UpdateAppointment(appt *Appointment) error {
	result := s.db.Save(appt)
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment: %w", result.Error)
	}
	return nil
}

func (s *appointmentStorage) ListByPatient(patientProfileID uint) ([]Appointment, error) {
	var appts []Appointment
	result := s.db.Where("patient_profile_id = ?", patientProfileID).Order("date desc").Find(&appts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", result.Error)
	}
	return appts, nil
}

func (s *appointmentStorage) ListByDoctorDate(doctorProfileID uint, date time.Time) ([]Appointment, error) {
	var appts []Appointment
	result := s.db.Where("doctor_profile_id = ? AND date = ?", doctorProfileID, date).
		Order("time_slot").Find(&appts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", result.Error)
	}
	return appts, nil
}

func (s *appointmentStorage) SlotTaken(doctorProfileID uint, date time.Time, slot string) (bool, error) {
	var count int64
	result := s.db.Model(&Appointment{}).
		Where("doctor_profile_id = ? AND date = ? AND time_slot = ? AND status = ?",
			doctorProfileID, date, slot, StatusBooked).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check slot: %w", result.Error)
	}
	return count > 0, nil
}

func (s *appointmentStorage) CountByStatus(clinicID uint) (*StatusCounts, error) {
	counts := &StatusCounts{}

	query := s.db.Model(&Appointment{})
	if clinicID != 0 {
		query = query.Where("clinic_id = ?", clinicID)
	}

	if err := query.Count(&counts.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	grouped := s.db.Model(&Appointment{}).Select("status, COUNT(*) as count")
	if clinicID != 0 {
		grouped = grouped.Where("clinic_id = ?", clinicID)
	}
	if err := grouped.Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}

	for _, row := range rows {
		switch row.Status {
		case StatusBooked:
			counts.Booked = row.Count
		case StatusCancelled:
			counts.Cancelled = row.Count
		case StatusCompleted:
			counts.Completed = row.Count
		}
	}

	return counts, nil
}

func (s *appointmentStorage) DoctorWiseBookings(clinicID uint) ([]DoctorBookings, error) {
	var rows []DoctorBookings
	query := s.db.Table("appointments").
		Select("appointments.doctor_profile_id, users.name as doctor_name, COUNT(*) as booking_count").
		Joins("JOIN doctor_profiles ON doctor_profiles.id = appointments.doctor_profile_id").
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("appointments.deleted_at IS NULL")
	if clinicID != 0 {
		query = query.Where("appointments.clinic_id = ?", clinicID)
	}
	result := query.Group("appointments.doctor_profile_id, users.name").
		Order("booking_count desc").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch doctor-wise bookings: %w", result.Error)
	}
	return rows, nil
}

func (s *appointmentStorage) ClinicWiseBookings() ([]ClinicBookings, error) {
	var rows []ClinicBookings
	result := s.db.Table("appointments").
		Select("appointments.clinic_id, clinics.name as clinic_name, COUNT(*) as booking_count").
		Joins("JOIN clinics ON clinics.id = appointments.clinic_id").
		Where("appointments.deleted_at IS NULL").
		Group("appointments.clinic_id, clinics.name").
		Order("booking_count desc").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch clinic-wise bookings: %w", result.Error)
	}
	return rows, nil
}

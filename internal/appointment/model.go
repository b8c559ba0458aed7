package appointment

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Appointment struct {
	gorm.Model
	Ref              string    `json:"ref" gorm:"uniqueIndex:idx_appointments_ref"`
	ClinicID         uint      `json:"clinic_id"`
	DoctorProfileID  uint      `json:"doctor_profile_id"`
	PatientProfileID uint      `json:"patient_profile_id"`
	Date             time.Time `json:"date"`
	TimeSlot         string    `json:"time_slot"`
	HealthIssue      string    `json:"health_issue"`
	Status           string    `json:"status"`
}

// StatusCounts is the dashboard headline: bookings by outcome.
type StatusCounts struct {
	Total     int64 `json:"total"`
	Booked    int64 `json:"booked"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}

// DoctorBookings is one row of the per-doctor dashboard report.
type DoctorBookings struct {
	DoctorProfileID uint   `json:"doctor_profile_id"`
	DoctorName      string `json:"doctor_name"`
	BookingCount    int64  `json:"booking_count"`
}

// ClinicBookings is one row of the per-clinic dashboard report.
type ClinicBookings struct {
	ClinicID     uint   `json:"clinic_id"`
	ClinicName   string `json:"clinic_name"`
	BookingCount int64  `json:"booking_count"`
}

package appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

const dateLayout = "2006-01-02"

type BookingInput struct {
	DoctorProfileID uint   `json:"doctor_profile_id" binding:"required"`
	ClinicID        uint   `json:"clinic_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	TimeSlot        string `json:"time_slot" binding:"required"`
	HealthIssue     string `json:"health_issue"`
}

type AppointmentService interface {
	Book(patientProfileID uint, input BookingInput) (*Appointment, error)
	Cancel(claims *auth.SessionClaims, patientProfileID uint, ref string) error
	PatientHistory(patientProfileID uint) ([]Appointment, error)
	DoctorDay(doctorProfileID uint, date time.Time) ([]Appointment, error)

	Dashboard(clinicID uint) (*StatusCounts, error)
	DoctorReport(clinicID uint) ([]DoctorBookings, error)
	ClinicReport() ([]ClinicBookings, error)
	DoctorReportXLSX(clinicID uint) ([]byte, error)
}

type appointmentService struct {
	storage Storage
	logger  *logrus.Entry
}

func NewService(storage Storage, log *logrus.Entry) AppointmentService {
	return &appointmentService{
		storage: storage,
		logger:  log,
	}
}

func (s *appointmentService) Book(patientProfileID uint, input BookingInput) (*Appointment, error) {
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "must be formatted YYYY-MM-DD"}
	}

	taken, err := s.storage.SlotTaken(input.DoctorProfileID, date, input.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errSlotTaken
	}

	appt := &Appointment{
		Ref:              uuid.NewString(),
		ClinicID:         input.ClinicID,
		DoctorProfileID:  input.DoctorProfileID,
		PatientProfileID: patientProfileID,
		Date:             date,
		TimeSlot:         input.TimeSlot,
		HealthIssue:      input.HealthIssue,
		Status:           StatusBooked,
	}

	if _, err := s.storage.CreateAppointment(appt); err != nil {
		return nil, err
	}

	s.logger.Infof("booked appointment %s for patient %d", appt.Ref, patientProfileID)
	return appt, nil
}

// Cancel flips the status. Patients may cancel only their own
// appointments; doctors and admins may cancel any they can see.
func (s *appointmentService) Cancel(claims *auth.SessionClaims, patientProfileID uint, ref string) error {
	appt, err := s.storage.GetByRef(ref)
	if err != nil {
		return err
	}
	if appt == nil {
		return errAppointmentNotFound
	}

	if claims.Role == auth.RolePatient && appt.PatientProfileID != patientProfileID {
		return errNotOwner
	}

	if appt.Status == StatusCancelled {
		return errAlreadyCancelled
	}

	appt.Status = StatusCancelled
	return s.storage.UpdateAppointment(appt)
}

func (s *appointmentService) PatientHistory(patientProfileID uint) ([]Appointment, error) {
	return s.storage.ListByPatient(patientProfileID)
}

func (s *appointmentService) DoctorDay(doctorProfileID uint, date time.Time) ([]Appointment, error) {
	return s.storage.ListByDoctorDate(doctorProfileID, date)
}

func (s *appointmentService) Dashboard(clinicID uint) (*StatusCounts, error) {
	return s.storage.CountByStatus(clinicID)
}

func (s *appointmentService) DoctorReport(clinicID uint) ([]DoctorBookings, error) {
	return s.storage.DoctorWiseBookings(clinicID)
}

func (s *appointmentService) ClinicReport() ([]ClinicBookings, error) {
	return s.storage.ClinicWiseBookings()
}

func (s *appointmentService) DoctorReportXLSX(clinicID uint) ([]byte, error) {
	rows, err := s.storage.DoctorWiseBookings(clinicID)
	if err != nil {
		return nil, err
	}
	return buildDoctorReport(rows)
}

// ValidationError reports a single malformed booking field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

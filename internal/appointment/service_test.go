package appointment

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-service/internal/auth"
)

type fakeStorage struct {
	appointments []*Appointment
	nextID       uint
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{nextID: 1}
}

func (f *fakeStorage) CreateAppointment(appt *Appointment) (uint, error) {
	appt.ID = f.nextID
	f.nextID++
	f.appointments = append(f.appointments, appt)
	return appt.ID, nil
}

func (f *fakeStorage) GetByRef(ref string) (*Appointment, error) {
	for _, a := range f.appointments {
		if a.Ref == ref {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) UpdateAppointment(appt *Appointment) error {
	for i, a := range f.appointments {
		if a.ID == appt.ID {
			f.appointments[i] = appt
			return nil
		}
	}
	return errAppointmentNotFound
}

func (f *fakeStorage) ListByPatient(patientProfileID uint) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.PatientProfileID == patientProfileID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStorage) ListByDoctorDate(doctorProfileID uint, date time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.DoctorProfileID == doctorProfileID && a.Date.Equal(date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStorage) SlotTaken(doctorProfileID uint, date time.Time, slot string) (bool, error) {
	for _, a := range f.appointments {
		if a.DoctorProfileID == doctorProfileID && a.Date.Equal(date) &&
			a.TimeSlot == slot && a.Status == StatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStorage) CountByStatus(clinicID uint) (*StatusCounts, error) {
	counts := &StatusCounts{}
	for _, a := range f.appointments {
		if clinicID != 0 && a.ClinicID != clinicID {
			continue
		}
		counts.Total++
		switch a.Status {
		case StatusBooked:
			counts.Booked++
		case StatusCancelled:
			counts.Cancelled++
		case StatusCompleted:
			counts.Completed++
		}
	}
	return counts, nil
}

func (f *fakeStorage) DoctorWiseBookings(clinicID uint) ([]DoctorBookings, error) {
	byDoctor := make(map[uint]int64)
	for _, a := range f.appointments {
		if clinicID != 0 && a.ClinicID != clinicID {
			continue
		}
		byDoctor[a.DoctorProfileID]++
	}
	var rows []DoctorBookings
	for id, count := range byDoctor {
		rows = append(rows, DoctorBookings{DoctorProfileID: id, BookingCount: count})
	}
	return rows, nil
}

func (f *fakeStorage) ClinicWiseBookings() ([]ClinicBookings, error) {
	byClinic := make(map[uint]int64)
	for _, a := range f.appointments {
		byClinic[a.ClinicID]++
	}
	var rows []ClinicBookings
	for id, count := range byClinic {
		rows = append(rows, ClinicBookings{ClinicID: id, BookingCount: count})
	}
	return rows, nil
}

func newTestService(storage Storage) AppointmentService {
	return NewService(storage, logrus.NewEntry(logrus.New()))
}

func bookingInput() BookingInput {
	return BookingInput{
		DoctorProfileID: 5,
		ClinicID:        1,
		Date:            "2026-09-14",
		TimeSlot:        "10:00-10:30",
		HealthIssue:     "checkup",
	}
}

func TestBook(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	appt, err := svc.Book(3, bookingInput())
	require.NoError(t, err)

	assert.NotEmpty(t, appt.Ref)
	assert.Equal(t, StatusBooked, appt.Status)
	assert.Equal(t, uint(3), appt.PatientProfileID)
	assert.Equal(t, uint(5), appt.DoctorProfileID)
	require.Len(t, storage.appointments, 1)
}

func TestBook_BadDate(t *testing.T) {
	svc := newTestService(newFakeStorage())

	input := bookingInput()
	input.Date = "14/09/2026"

	_, err := svc.Book(3, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestBook_SlotConflict(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	_, err := svc.Book(3, bookingInput())
	require.NoError(t, err)

	_, err = svc.Book(4, bookingInput())
	assert.ErrorIs(t, err, errSlotTaken)

	// A cancelled appointment frees the slot.
	storage.appointments[0].Status = StatusCancelled
	_, err = svc.Book(4, bookingInput())
	assert.NoError(t, err)
}

func patientClaims(profileOwner uint) *auth.SessionClaims {
	return &auth.SessionClaims{UserID: profileOwner, Role: auth.RolePatient}
}

func TestCancel(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	appt, err := svc.Book(3, bookingInput())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(patientClaims(1), 3, appt.Ref))
	assert.Equal(t, StatusCancelled, storage.appointments[0].Status)

	assert.ErrorIs(t, svc.Cancel(patientClaims(1), 3, appt.Ref), errAlreadyCancelled)
}

func TestCancel_OwnershipAndNotFound(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	appt, err := svc.Book(3, bookingInput())
	require.NoError(t, err)

	// Another patient cannot cancel it, but an admin can.
	assert.ErrorIs(t, svc.Cancel(patientClaims(2), 99, appt.Ref), errNotOwner)
	admin := &auth.SessionClaims{UserID: 8, Role: auth.RoleAdmin}
	assert.NoError(t, svc.Cancel(admin, 0, appt.Ref))

	assert.ErrorIs(t, svc.Cancel(patientClaims(1), 3, "no-such-ref"), errAppointmentNotFound)
}

func TestPatientHistoryAndDoctorDay(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	first := bookingInput()
	_, err := svc.Book(3, first)
	require.NoError(t, err)

	second := bookingInput()
	second.TimeSlot = "11:00-11:30"
	_, err = svc.Book(4, second)
	require.NoError(t, err)

	history, err := svc.PatientHistory(3)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, uint(3), history[0].PatientProfileID)

	day, err := svc.DoctorDay(5, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, day, 2)
}

func TestDashboard(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	appt, err := svc.Book(3, bookingInput())
	require.NoError(t, err)

	second := bookingInput()
	second.TimeSlot = "11:00-11:30"
	_, err = svc.Book(4, second)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(patientClaims(1), 3, appt.Ref))

	counts, err := svc.Dashboard(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.Booked)
	assert.Equal(t, int64(1), counts.Cancelled)

	other, err := svc.Dashboard(99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), other.Total)
}

package clinic

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-service/internal/address"
	"github.com/clinicore/clinic-service/internal/geocode"
)

type fakeStorage struct {
	clinics   map[uint]*Clinic
	addresses map[uint]*address.Address
	nextID    uint
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		clinics:   make(map[uint]*Clinic),
		addresses: make(map[uint]*address.Address),
		nextID:    1,
	}
}

func (f *fakeStorage) CreateClinic(clinic *Clinic) (uint, error) {
	clinic.ID = f.nextID
	f.nextID++
	copied := *clinic
	f.clinics[clinic.ID] = &copied
	return clinic.ID, nil
}

func (f *fakeStorage) GetClinicByID(id uint) (*Clinic, error) {
	clinic, ok := f.clinics[id]
	if !ok {
		return nil, nil
	}
	copied := *clinic
	return &copied, nil
}

func (f *fakeStorage) ListClinics(status string) ([]Clinic, error) {
	var out []Clinic
	for _, clinic := range f.clinics {
		if status == "" || clinic.Status == status {
			out = append(out, *clinic)
		}
	}
	return out, nil
}

func (f *fakeStorage) UpdateClinic(clinic *Clinic) error {
	if _, ok := f.clinics[clinic.ID]; !ok {
		return errors.New("no such clinic")
	}
	copied := *clinic
	f.clinics[clinic.ID] = &copied
	return nil
}

func (f *fakeStorage) UpsertAddress(addr *address.Address) error {
	copied := *addr
	f.addresses[addr.EntityID] = &copied
	return nil
}

func (f *fakeStorage) GetAddress(entityType address.EntityType, entityID uint) (*address.Address, error) {
	addr, ok := f.addresses[entityID]
	if !ok {
		return nil, nil
	}
	return addr, nil
}

type fakeGeocoder struct {
	results []geocode.Result
	err     error
	queries []string
}

func (f *fakeGeocoder) Search(_ context.Context, query string) ([]geocode.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func newTestService(geocoder Geocoder) (ClinicService, *fakeStorage) {
	storage := newFakeStorage()
	log := logrus.NewEntry(logrus.New())
	return NewService(storage, geocoder, log), storage
}

func TestAddClinic(t *testing.T) {
	svc, storage := newTestService(nil)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{Name: "North Shore Clinic", Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, clinic.Status)
	assert.Len(t, storage.clinics, 1)
}

func TestAddClinic_WithAddressGeocoded(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocode.Result{{Latitude: 41.14, Longitude: -8.61}}}
	svc, storage := newTestService(geocoder)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{
		Name:    "North Shore Clinic",
		Address: &address.Address{Line1: "Rua das Flores 12", City: "Porto"},
	})
	require.NoError(t, err)

	addr := storage.addresses[clinic.ID]
	require.NotNil(t, addr)
	assert.Equal(t, address.EntityClinic, addr.EntityType)
	require.NotNil(t, addr.Latitude)
	assert.Equal(t, 41.14, *addr.Latitude)
	assert.Equal(t, []string{"Rua das Flores 12, Porto"}, geocoder.queries)
}

func TestAddClinic_GeocodeFailureIsSwallowed(t *testing.T) {
	geocoder := &fakeGeocoder{err: errors.New("upstream down")}
	svc, storage := newTestService(geocoder)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{
		Name:    "North Shore Clinic",
		Address: &address.Address{City: "Porto"},
	})
	require.NoError(t, err)

	addr := storage.addresses[clinic.ID]
	require.NotNil(t, addr)
	assert.Nil(t, addr.Latitude)
}

func TestAddClinic_FormCoordinatesWin(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocode.Result{{Latitude: 1, Longitude: 2}}}
	svc, storage := newTestService(geocoder)

	lat, lng := 41.0, -8.0
	clinic, err := svc.AddClinic(context.Background(), ClinicInput{
		Name:    "North Shore Clinic",
		Address: &address.Address{City: "Porto", Latitude: &lat, Longitude: &lng},
	})
	require.NoError(t, err)

	addr := storage.addresses[clinic.ID]
	require.NotNil(t, addr.Latitude)
	assert.Equal(t, 41.0, *addr.Latitude)
	assert.Empty(t, geocoder.queries)
}

func TestGetClinic_NotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	_, _, err := svc.GetClinic(99)
	assert.ErrorIs(t, err, errClinicNotFound)
}

func TestDeactivateClinic(t *testing.T) {
	svc, storage := newTestService(nil)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{Name: "North Shore Clinic"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateClinic(clinic.ID))

	stored := storage.clinics[clinic.ID]
	assert.Equal(t, StatusInactive, stored.Status)

	// Deactivation is a status flip, the row stays.
	assert.Len(t, storage.clinics, 1)
}

func TestDeactivateClinic_AlreadyInactive(t *testing.T) {
	svc, _ := newTestService(nil)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{Name: "North Shore Clinic"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateClinic(clinic.ID))
	assert.ErrorIs(t, svc.DeactivateClinic(clinic.ID), errClinicInactive)
}

func TestUpdateClinic_InactiveRejected(t *testing.T) {
	svc, _ := newTestService(nil)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{Name: "North Shore Clinic"})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateClinic(clinic.ID))

	_, err = svc.UpdateClinic(context.Background(), clinic.ID, ClinicInput{Name: "Renamed"})
	assert.ErrorIs(t, err, errClinicInactive)
}

func TestUpdateClinic(t *testing.T) {
	svc, storage := newTestService(nil)

	clinic, err := svc.AddClinic(context.Background(), ClinicInput{Name: "North Shore Clinic"})
	require.NoError(t, err)

	updated, err := svc.UpdateClinic(context.Background(), clinic.ID, ClinicInput{Name: "North Shore Medical", Phone: "555-0202"})
	require.NoError(t, err)
	assert.Equal(t, "North Shore Medical", updated.Name)
	assert.Equal(t, "555-0202", storage.clinics[clinic.ID].Phone)
}

func TestListClinics_StatusFilter(t *testing.T) {
	svc, _ := newTestService(nil)

	first, err := svc.AddClinic(context.Background(), ClinicInput{Name: "A"})
	require.NoError(t, err)
	_, err = svc.AddClinic(context.Background(), ClinicInput{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateClinic(first.ID))

	active, err := svc.ListClinics(StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Name)

	all, err := svc.ListClinics("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

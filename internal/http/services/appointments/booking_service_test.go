package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/appointments"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// fakeRepo implementa solo lo que el booking service toca; el resto del
// Repository embebido queda nil y haría panic si se usara.
type fakeRepo struct {
	core.Repository

	patients  map[string]*core.Patient
	conflicts int
	dayCount  int
	created   []*core.Appointment
	statusSet map[string]string
}

func (f *fakeRepo) GetPatient(_ context.Context, tenantID, id string) (*core.Patient, error) {
	p, ok := f.patients[id]
	if !ok || p.TenantID != tenantID {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) CountDoctorConflicts(_ context.Context, _, _ string, _, _ time.Time) (int, error) {
	return f.conflicts, nil
}

func (f *fakeRepo) CountDoctorDay(_ context.Context, _, _ string, _, _ time.Time) (int, error) {
	return f.dayCount, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, a *core.Appointment) error {
	f.created = append(f.created, a)
	return nil
}

func (f *fakeRepo) UpdateAppointmentStatus(_ context.Context, _, id, status string) error {
	if f.statusSet == nil {
		f.statusSet = map[string]string{}
	}
	f.statusSet[id] = status
	return nil
}

type fakeNotifier struct {
	to    string
	token int
	fail  bool
}

func (f *fakeNotifier) AppointmentConfirmation(_ context.Context, to, _ string, _ time.Time, tokenNumber int) error {
	f.to = to
	f.token = tokenNumber
	if f.fail {
		return errors.New("smtp down")
	}
	return nil
}

func testClock() func() time.Time {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func demoPatient() map[string]*core.Patient {
	return map[string]*core.Patient{
		"pat-1": {ID: "pat-1", TenantID: "clinic-a", FirstName: "Ana", LastName: "Gomez", Email: "ana@x.com"},
	}
}

func TestBook_AssignsTokenNumber(t *testing.T) {
	repo := &fakeRepo{patients: demoPatient(), dayCount: 4}
	notifier := &fakeNotifier{}
	s := NewService(Deps{Store: repo, Notifier: notifier, Now: testClock()})

	a, err := s.Book(context.Background(), "clinic-a", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Type:      core.AppointmentConsultation,
	})
	require.NoError(t, err)
	require.Equal(t, 5, a.TokenNumber, "token = count del día + 1")
	require.Equal(t, core.AppointmentScheduled, a.Status)
	require.Equal(t, "clinic-a", a.TenantID)
	require.Len(t, repo.created, 1)

	// Confirmación best-effort enviada al email del paciente
	require.Equal(t, "ana@x.com", notifier.to)
	require.Equal(t, 5, notifier.token)
}

func TestBook_DoctorBusy(t *testing.T) {
	repo := &fakeRepo{patients: demoPatient(), conflicts: 1}
	s := NewService(Deps{Store: repo, Now: testClock()})

	_, err := s.Book(context.Background(), "clinic-a", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Type:      core.AppointmentConsultation,
	})
	require.ErrorIs(t, err, ErrDoctorBusy)
	require.Empty(t, repo.created)
}

func TestBook_PastDate(t *testing.T) {
	s := NewService(Deps{Store: &fakeRepo{patients: demoPatient()}, Now: testClock()})

	_, err := s.Book(context.Background(), "clinic-a", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 4, 30, 10, 0, 0, 0, time.UTC),
		Type:      core.AppointmentConsultation,
	})
	require.ErrorIs(t, err, ErrPastDate)
}

func TestBook_InvalidType(t *testing.T) {
	s := NewService(Deps{Store: &fakeRepo{patients: demoPatient()}, Now: testClock()})

	_, err := s.Book(context.Background(), "clinic-a", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Type:      "HOUSE_CALL",
	})
	require.ErrorIs(t, err, ErrBadType)
}

// El paciente de otro tenant no existe para este booking.
func TestBook_PatientFromOtherTenant(t *testing.T) {
	s := NewService(Deps{Store: &fakeRepo{patients: demoPatient()}, Now: testClock()})

	_, err := s.Book(context.Background(), "clinic-b", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Type:      core.AppointmentConsultation,
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

// La falla del mailer nunca falla el booking.
func TestBook_NotifierFailureIsBestEffort(t *testing.T) {
	repo := &fakeRepo{patients: demoPatient()}
	s := NewService(Deps{Store: repo, Notifier: &fakeNotifier{fail: true}, Now: testClock()})

	a, err := s.Book(context.Background(), "clinic-a", dto.BookRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		At:        time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Type:      core.AppointmentFollowUp,
	})
	require.NoError(t, err)
	require.NotNil(t, a)
}

func TestUpdateStatus_Validation(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(Deps{Store: repo, Now: testClock()})

	require.ErrorIs(t, s.UpdateStatus(context.Background(), "clinic-a", "apt-1", "WHATEVER"), ErrBadStatus)
	require.NoError(t, s.UpdateStatus(context.Background(), "clinic-a", "apt-1", core.AppointmentNoShow))
	require.Equal(t, core.AppointmentNoShow, repo.statusSet["apt-1"])
}

func TestCancel(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(Deps{Store: repo, Now: testClock()})

	require.NoError(t, s.Cancel(context.Background(), "clinic-a", "apt-1"))
	require.Equal(t, core.AppointmentCancelled, repo.statusSet["apt-1"])
}

package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/appointments"
	"github.com/clinicia-hq/clinicia-server/internal/notify"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// ConflictWindow is the half-width of the double-booking window: two
// non-cancelled appointments of the same doctor closer than this
// conflict with each other.
const ConflictWindow = 30 * time.Minute

// Service defines appointment operations. tenantID is always the
// effective tenant already authorized by the guard.
type Service interface {
	Book(ctx context.Context, tenantID string, req dto.BookRequest) (*core.Appointment, error)
	Get(ctx context.Context, tenantID, id string) (*core.Appointment, error)
	ListDay(ctx context.Context, tenantID string, day time.Time) ([]core.Appointment, error)
	ListByPatient(ctx context.Context, tenantID, patientID string) ([]core.Appointment, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	Cancel(ctx context.Context, tenantID, id string) error
}

// Service errors
var (
	ErrMissingPatient = fmt.Errorf("patient_id is required")
	ErrMissingDoctor  = fmt.Errorf("doctor_id is required")
	ErrPastDate       = fmt.Errorf("appointment date is in the past")
	ErrBadType        = fmt.Errorf("invalid appointment type")
	ErrBadStatus      = fmt.Errorf("invalid appointment status")
	ErrDoctorBusy     = fmt.Errorf("doctor already has an appointment in that slot")
)

// Deps contains dependencies for the booking service.
type Deps struct {
	Store    core.Repository
	Notifier notify.Notifier
	Now      func() time.Time
}

type service struct {
	store    core.Repository
	notifier notify.Notifier
	now      func() time.Time
}

// NewService creates a new booking service.
func NewService(deps Deps) Service {
	n := deps.Notifier
	if n == nil {
		n = notify.Noop{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: deps.Store, notifier: n, now: now}
}

func validType(t string) bool {
	switch t {
	case core.AppointmentConsultation, core.AppointmentFollowUp,
		core.AppointmentProcedure, core.AppointmentEmergency:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case core.AppointmentScheduled, core.AppointmentCompleted,
		core.AppointmentCancelled, core.AppointmentNoShow:
		return true
	}
	return false
}

// Book valida, chequea double-booking y asigna el token number del día.
// La confirmación por mail es best-effort: nunca falla el booking.
func (s *service) Book(ctx context.Context, tenantID string, req dto.BookRequest) (*core.Appointment, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("appointments"),
		logger.Op("Book"),
	)

	if req.PatientID == "" {
		return nil, ErrMissingPatient
	}
	if req.DoctorID == "" {
		return nil, ErrMissingDoctor
	}
	if !validType(req.Type) {
		return nil, ErrBadType
	}
	at := req.At.UTC()
	if at.Before(s.now().UTC()) {
		return nil, ErrPastDate
	}

	// El paciente tiene que existir en ESTE tenant.
	patient, err := s.store.GetPatient(ctx, tenantID, req.PatientID)
	if err != nil {
		return nil, err
	}

	// Double-booking: mismo doctor, ventana de ±30min, no cancelados.
	conflicts, err := s.store.CountDoctorConflicts(ctx, tenantID, req.DoctorID,
		at.Add(-ConflictWindow), at.Add(ConflictWindow))
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrDoctorBusy
	}

	// Token number: secuencia por doctor por día (día local del turno).
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	existing, err := s.store.CountDoctorDay(ctx, tenantID, req.DoctorID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	a := &core.Appointment{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		At:          at,
		Type:        req.Type,
		Status:      core.AppointmentScheduled,
		TokenNumber: existing + 1,
		Notes:       req.Notes,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}

	log.Info("appointment booked",
		logger.AppointmentID(a.ID),
		logger.DoctorID(a.DoctorID),
		logger.TenantID(tenantID),
		logger.Int("token_number", a.TokenNumber),
	)

	if patient.Email != "" {
		name := patient.FirstName + " " + patient.LastName
		if err := s.notifier.AppointmentConfirmation(ctx, patient.Email, name, a.At, a.TokenNumber); err != nil {
			log.Warn("confirmation mail failed", logger.Err(err))
		}
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*core.Appointment, error) {
	return s.store.GetAppointment(ctx, tenantID, id)
}

// ListDay lists the clinic's appointments for the calendar day of the
// given instant.
func (s *service) ListDay(ctx context.Context, tenantID string, day time.Time) ([]core.Appointment, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.store.ListAppointmentsByDay(ctx, tenantID, start, start.Add(24*time.Hour))
}

func (s *service) ListByPatient(ctx context.Context, tenantID, patientID string) ([]core.Appointment, error) {
	return s.store.ListAppointmentsByPatient(ctx, tenantID, patientID)
}

func (s *service) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	if !validStatus(status) {
		return ErrBadStatus
	}
	return s.store.UpdateAppointmentStatus(ctx, tenantID, id, status)
}

// Cancel marks the appointment CANCELLED; the slot becomes bookable again.
func (s *service) Cancel(ctx context.Context, tenantID, id string) error {
	return s.store.UpdateAppointmentStatus(ctx, tenantID, id, core.AppointmentCancelled)
}

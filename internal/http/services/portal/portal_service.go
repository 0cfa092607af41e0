package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicia-hq/clinicia-server/internal/audit"
	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/portal"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Service is the patient-facing surface. The portal never goes through
// the staff tenant guard: every read is keyed by the patient id and
// tenant id baked into the portal token.
type Service interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Profile(ctx context.Context, p types.PatientPrincipal) (*core.Patient, error)
	Appointments(ctx context.Context, p types.PatientPrincipal) ([]core.Appointment, error)
	Visits(ctx context.Context, p types.PatientPrincipal) ([]dto.VisitResponse, error)
}

// Service errors
var (
	ErrMissingClinic      = fmt.Errorf("clinic_id is required")
	ErrMissingPhone       = fmt.Errorf("phone is required")
	ErrMissingAccessCode  = fmt.Errorf("access_code is required")
	ErrInvalidCredentials = fmt.Errorf("invalid phone or access code")
)

// Deps contains dependencies for the portal service.
type Deps struct {
	Store  core.Repository
	Tokens *auth.PortalTokens
	TTL    time.Duration
	Now    func() time.Time
}

type service struct {
	store  core.Repository
	tokens *auth.PortalTokens
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new portal service.
func NewService(deps Deps) Service {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: deps.Store, tokens: deps.Tokens, ttl: ttl, now: now}
}

// Login autentica por teléfono + código de acceso (bcrypt). Todas las
// fallas colapsan en un solo error: no se distingue "paciente no
// existe" de "código incorrecto".
func (s *service) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("portal"),
		logger.Op("Login"),
	)

	if req.ClinicID == "" {
		return nil, ErrMissingClinic
	}
	if req.Phone == "" {
		return nil, ErrMissingPhone
	}
	if req.AccessCode == "" {
		return nil, ErrMissingAccessCode
	}

	patient, err := s.store.GetPatientByPhone(ctx, req.ClinicID, req.Phone)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if patient.AccessHash == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*patient.AccessHash), []byte(req.AccessCode)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	token, err := s.tokens.Mint(patient.ID, patient.TenantID, now)
	if err != nil {
		return nil, err
	}

	log.Info("portal login", logger.PatientID(patient.ID), logger.TenantID(patient.TenantID))
	audit.Record(ctx, audit.PortalLogin,
		logger.PatientID(patient.ID), logger.TenantID(patient.TenantID))
	return &dto.LoginResponse{Token: token, ExpiresAt: now.Add(s.ttl)}, nil
}

func (s *service) Profile(ctx context.Context, p types.PatientPrincipal) (*core.Patient, error) {
	return s.store.GetPatient(ctx, p.TenantID, p.PatientID)
}

func (s *service) Appointments(ctx context.Context, p types.PatientPrincipal) ([]core.Appointment, error) {
	return s.store.ListAppointmentsByPatient(ctx, p.TenantID, p.PatientID)
}

// Visits devuelve el historial del paciente con sus recetas. Solo
// expone diagnóstico y recetas: las notas internas del médico no salen
// por el portal.
func (s *service) Visits(ctx context.Context, p types.PatientPrincipal) ([]dto.VisitResponse, error) {
	visits, err := s.store.ListVisitsByPatient(ctx, p.TenantID, p.PatientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.VisitResponse, 0, len(visits))
	for _, v := range visits {
		prescriptions, err := s.store.ListPrescriptionsByVisit(ctx, p.TenantID, v.ID)
		if err != nil {
			return nil, err
		}
		pr := make([]dto.PrescriptionResponse, 0, len(prescriptions))
		for _, rx := range prescriptions {
			pr = append(pr, dto.PrescriptionResponse{
				Medicine: rx.Medicine,
				Dosage:   rx.Dosage,
				Duration: rx.Duration,
			})
		}
		out = append(out, dto.VisitResponse{
			ID:            v.ID,
			Diagnosis:     v.Diagnosis,
			CreatedAt:     v.CreatedAt,
			Prescriptions: pr,
		})
	}
	return out, nil
}

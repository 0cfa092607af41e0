package emr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/emr"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Service defines the EMR operations: visits, prescriptions and vitals.
// tenantID is always the effective tenant already authorized by the guard.
type Service interface {
	CreateVisit(ctx context.Context, tenantID string, req dto.CreateVisitRequest) (*core.Visit, error)
	GetVisit(ctx context.Context, tenantID, id string) (*core.Visit, error)
	ListVisits(ctx context.Context, tenantID, patientID string) ([]core.Visit, error)
	AddPrescription(ctx context.Context, tenantID, visitID string, req dto.AddPrescriptionRequest) (*core.Prescription, error)
	ListPrescriptions(ctx context.Context, tenantID, visitID string) ([]core.Prescription, error)
	RecordVitals(ctx context.Context, tenantID, patientID string, req dto.RecordVitalsRequest) (*core.Vitals, error)
	ListVitals(ctx context.Context, tenantID, patientID string) ([]core.Vitals, error)
}

// Service errors
var (
	ErrMissingPatient   = fmt.Errorf("patient_id is required")
	ErrMissingDoctor    = fmt.Errorf("doctor_id is required")
	ErrMissingComplaint = fmt.Errorf("complaint is required")
	ErrMissingMedicine  = fmt.Errorf("medicine and dosage are required")
	ErrEmptyVitals      = fmt.Errorf("at least one measurement is required")
)

type service struct {
	store core.Repository
}

// NewService creates a new EMR service.
func NewService(store core.Repository) Service {
	return &service{store: store}
}

// CreateVisit registra la consulta. Si viene appointment_id lo valida
// contra el tenant y marca el turno como COMPLETED.
func (s *service) CreateVisit(ctx context.Context, tenantID string, req dto.CreateVisitRequest) (*core.Visit, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("emr"),
		logger.Op("CreateVisit"),
	)

	if req.PatientID == "" {
		return nil, ErrMissingPatient
	}
	if req.DoctorID == "" {
		return nil, ErrMissingDoctor
	}
	if strings.TrimSpace(req.Complaint) == "" {
		return nil, ErrMissingComplaint
	}

	var apptID *string
	if req.AppointmentID != "" {
		if _, err := s.store.GetAppointment(ctx, tenantID, req.AppointmentID); err != nil {
			return nil, err
		}
		apptID = &req.AppointmentID
	}

	v := &core.Visit{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		AppointmentID: apptID,
		Complaint:     strings.TrimSpace(req.Complaint),
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateVisit(ctx, v); err != nil {
		return nil, err
	}

	if apptID != nil {
		if err := s.store.UpdateAppointmentStatus(ctx, tenantID, *apptID, core.AppointmentCompleted); err != nil {
			log.Warn("could not complete appointment", logger.AppointmentID(*apptID), logger.Err(err))
		}
	}

	log.Info("visit created", logger.PatientID(v.PatientID), logger.TenantID(tenantID))
	return v, nil
}

func (s *service) GetVisit(ctx context.Context, tenantID, id string) (*core.Visit, error) {
	return s.store.GetVisit(ctx, tenantID, id)
}

func (s *service) ListVisits(ctx context.Context, tenantID, patientID string) ([]core.Visit, error) {
	return s.store.ListVisitsByPatient(ctx, tenantID, patientID)
}

func (s *service) AddPrescription(ctx context.Context, tenantID, visitID string, req dto.AddPrescriptionRequest) (*core.Prescription, error) {
	if strings.TrimSpace(req.Medicine) == "" || strings.TrimSpace(req.Dosage) == "" {
		return nil, ErrMissingMedicine
	}
	// La visita tiene que existir en ESTE tenant.
	if _, err := s.store.GetVisit(ctx, tenantID, visitID); err != nil {
		return nil, err
	}

	p := &core.Prescription{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		VisitID:  visitID,
		Medicine: strings.TrimSpace(req.Medicine),
		Dosage:   strings.TrimSpace(req.Dosage),
		Duration: strings.TrimSpace(req.Duration),
		Notes:    req.Notes,
	}
	if err := s.store.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListPrescriptions(ctx context.Context, tenantID, visitID string) ([]core.Prescription, error) {
	return s.store.ListPrescriptionsByVisit(ctx, tenantID, visitID)
}

func (s *service) RecordVitals(ctx context.Context, tenantID, patientID string, req dto.RecordVitalsRequest) (*core.Vitals, error) {
	if req.HeightCm == nil && req.WeightKg == nil && req.Systolic == nil &&
		req.Diastolic == nil && req.Pulse == nil && req.TempCelsius == nil {
		return nil, ErrEmptyVitals
	}
	if _, err := s.store.GetPatient(ctx, tenantID, patientID); err != nil {
		return nil, err
	}

	var visitID *string
	if req.VisitID != "" {
		visitID = &req.VisitID
	}
	v := &core.Vitals{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		PatientID:   patientID,
		VisitID:     visitID,
		HeightCm:    req.HeightCm,
		WeightKg:    req.WeightKg,
		Systolic:    req.Systolic,
		Diastolic:   req.Diastolic,
		Pulse:       req.Pulse,
		TempCelsius: req.TempCelsius,
		RecordedAt:  time.Now().UTC(),
	}
	if err := s.store.RecordVitals(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) ListVitals(ctx context.Context, tenantID, patientID string) ([]core.Vitals, error) {
	return s.store.ListVitalsByPatient(ctx, tenantID, patientID)
}

package emr

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/emr"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/emr"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles the EMR surface: /api/visits and the per-patient
// history endpoints.
type Controller struct {
	service svc.Service
}

// NewController creates a new EMR controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// CreateVisit handles POST /api/visits.
func (c *Controller) CreateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EMR.CreateVisit"))

	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.CreateVisitRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	v, err := c.service.CreateVisit(ctx, tenantID, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingPatient), errors.Is(err, svc.ErrMissingDoctor),
			errors.Is(err, svc.ErrMissingComplaint):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		default:
			log.Error("create visit failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, visitResponse(v))
}

// GetVisit handles GET /api/visits/{id}.
func (c *Controller) GetVisit(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	v, err := c.service.GetVisit(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, visitResponse(v))
}

// ListVisits handles GET /api/patients/{id}/visits.
func (c *Controller) ListVisits(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.ListVisits(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.VisitResponse, 0, len(list))
	for i := range list {
		resp = append(resp, visitResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"visits": resp})
}

// AddPrescription handles POST /api/visits/{id}/prescriptions.
func (c *Controller) AddPrescription(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.AddPrescriptionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.service.AddPrescription(r.Context(), tenantID, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, svc.ErrMissingMedicine) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, prescriptionResponse(p))
}

// ListPrescriptions handles GET /api/visits/{id}/prescriptions.
func (c *Controller) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.ListPrescriptions(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.PrescriptionResponse, 0, len(list))
	for i := range list {
		resp = append(resp, prescriptionResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"prescriptions": resp})
}

// RecordVitals handles POST /api/patients/{id}/vitals.
func (c *Controller) RecordVitals(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.RecordVitalsRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	v, err := c.service.RecordVitals(r.Context(), tenantID, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, svc.ErrEmptyVitals) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, vitalsResponse(v))
}

// ListVitals handles GET /api/patients/{id}/vitals.
func (c *Controller) ListVitals(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.ListVitals(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.VitalsResponse, 0, len(list))
	for i := range list {
		resp = append(resp, vitalsResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"vitals": resp})
}

func visitResponse(v *core.Visit) dto.VisitResponse {
	return dto.VisitResponse{
		ID:            v.ID,
		ClinicID:      v.TenantID,
		PatientID:     v.PatientID,
		DoctorID:      v.DoctorID,
		AppointmentID: v.AppointmentID,
		Complaint:     v.Complaint,
		Diagnosis:     v.Diagnosis,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
	}
}

func prescriptionResponse(p *core.Prescription) dto.PrescriptionResponse {
	return dto.PrescriptionResponse{
		ID:       p.ID,
		VisitID:  p.VisitID,
		Medicine: p.Medicine,
		Dosage:   p.Dosage,
		Duration: p.Duration,
		Notes:    p.Notes,
	}
}

func vitalsResponse(v *core.Vitals) dto.VitalsResponse {
	return dto.VitalsResponse{
		ID:          v.ID,
		PatientID:   v.PatientID,
		VisitID:     v.VisitID,
		HeightCm:    v.HeightCm,
		WeightKg:    v.WeightKg,
		Systolic:    v.Systolic,
		Diastolic:   v.Diastolic,
		Pulse:       v.Pulse,
		TempCelsius: v.TempCelsius,
		RecordedAt:  v.RecordedAt,
	}
}

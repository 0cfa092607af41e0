package patients

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/patients"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/patients"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles /api/patients.
type Controller struct {
	service svc.Service
}

// NewController creates a new patients controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Create handles POST /api/patients.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Patients.Create"))

	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.CreatePatientRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.service.Create(ctx, tenantID, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingName), errors.Is(err, svc.ErrMissingPhone), errors.Is(err, svc.ErrBadBirthDate):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, core.ErrConflict):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("phone already registered in this clinic"))
		default:
			log.Error("create patient failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, toResponse(p))
}

// Get handles GET /api/patients/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	p, err := c.service.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(p))
}

// Update handles PUT /api/patients/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.service.Update(r.Context(), tenantID, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, svc.ErrBadBirthDate) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(p))
}

// Search handles GET /api/patients?q=...
func (c *Controller) Search(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.Search(r.Context(), tenantID, r.URL.Query().Get("q"), limit)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	resp := dto.ListResponse{Patients: make([]dto.PatientResponse, 0, len(list))}
	for i := range list {
		resp.Patients = append(resp.Patients, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// SetAccessCode handles POST /api/patients/{id}/access-code.
// Enables the patient portal for this patient.
func (c *Controller) SetAccessCode(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.SetAccessCodeRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.SetAccessCode(r.Context(), tenantID, chi.URLParam(r, "id"), req.AccessCode); err != nil {
		if errors.Is(err, svc.ErrAccessCodeLength) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(p *core.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:            p.ID,
		ClinicID:      p.TenantID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Email:         p.Email,
		Gender:        p.Gender,
		BirthDate:     p.BirthDate,
		PortalEnabled: p.AccessHash != nil,
		CreatedAt:     p.CreatedAt,
	}
}

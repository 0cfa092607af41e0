package appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/appointments"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/appointments"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles /api/appointments.
type Controller struct {
	service svc.Service
}

// NewController creates a new appointments controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Book handles POST /api/appointments.
func (c *Controller) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Appointments.Book"))

	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.BookRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	a, err := c.service.Book(ctx, tenantID, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingPatient), errors.Is(err, svc.ErrMissingDoctor),
			errors.Is(err, svc.ErrBadType), errors.Is(err, svc.ErrPastDate):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, svc.ErrDoctorBusy):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
		case errors.Is(err, core.ErrNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("patient not found"))
		default:
			log.Error("book failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, toResponse(a))
}

// Get handles GET /api/appointments/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	a, err := c.service.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(a))
}

// ListDay handles GET /api/appointments?day=YYYY-MM-DD.
// Day defaults to today.
func (c *Controller) ListDay(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	day := time.Now().UTC()
	if q := r.URL.Query().Get("day"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("day must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	list, err := c.service.ListDay(r.Context(), tenantID, day)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	writeList(w, list)
}

// ListByPatient handles GET /api/patients/{id}/appointments.
func (c *Controller) ListByPatient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.ListByPatient(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	writeList(w, list)
}

// UpdateStatus handles PATCH /api/appointments/{id}/status.
func (c *Controller) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.UpdateStatus(r.Context(), tenantID, chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, svc.ErrBadStatus) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cancel handles DELETE /api/appointments/{id}.
func (c *Controller) Cancel(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	if err := c.service.Cancel(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeList(w http.ResponseWriter, list []core.Appointment) {
	resp := dto.ListResponse{Appointments: make([]dto.AppointmentResponse, 0, len(list))}
	for i := range list {
		resp.Appointments = append(resp.Appointments, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func toResponse(a *core.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          a.ID,
		ClinicID:    a.TenantID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		At:          a.At,
		Type:        a.Type,
		Status:      a.Status,
		TokenNumber: a.TokenNumber,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

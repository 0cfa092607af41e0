package admin

import (
	"errors"
	"net/http"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/admin"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/admin"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles /api/admin: the platform-operator console.
// The whole subtree is mounted behind RequireRole(SUPER_ADMIN).
type Controller struct {
	service svc.Service
}

// NewController creates a new admin controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// CreateClinic handles POST /api/admin/clinics.
func (c *Controller) CreateClinic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Admin.CreateClinic"))

	var req dto.CreateClinicRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	clinic, err := c.service.CreateClinic(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingName), errors.Is(err, svc.ErrBadSlug):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, core.ErrConflict):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("slug already in use"))
		default:
			log.Error("create clinic failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, clinicResponse(clinic))
}

// ListClinics handles GET /api/admin/clinics.
func (c *Controller) ListClinics(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListClinics(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.ClinicResponse, 0, len(list))
	for i := range list {
		resp = append(resp, clinicResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"clinics": resp})
}

// ListUsers handles GET /api/admin/users?clinic_id=...
// Without clinic_id it lists users across all tenants.
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListUsers(r.Context(), r.URL.Query().Get("clinic_id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, dto.UserResponse{
			ID:        u.ID,
			ClinicID:  u.TenantID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"users": resp})
}

// Stats handles GET /api/admin/stats.
func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Stats(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, stats)
}

func clinicResponse(c *core.Clinic) dto.ClinicResponse {
	return dto.ClinicResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

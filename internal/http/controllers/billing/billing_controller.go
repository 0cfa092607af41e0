package billing

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/billing"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/billing"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles /api/invoices.
type Controller struct {
	service svc.Service
}

// NewController creates a new billing controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Create handles POST /api/invoices.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Billing.Create"))

	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	inv, err := c.service.Create(ctx, tenantID, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingVisit), errors.Is(err, svc.ErrNoItems), errors.Is(err, svc.ErrBadItem):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, core.ErrNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("visit not found"))
		default:
			log.Error("create invoice failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(inv))
}

// Get handles GET /api/invoices/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	inv, err := c.service.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(inv))
}

// List handles GET /api/invoices?status=PENDING.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.List(r.Context(), tenantID, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, svc.ErrBadStatus) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	resp := dto.ListResponse{Invoices: make([]dto.InvoiceResponse, 0, len(list))}
	for i := range list {
		resp.Invoices = append(resp.Invoices, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// MarkPaid handles POST /api/invoices/{id}/pay.
func (c *Controller) MarkPaid(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	if err := c.service.MarkPaid(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, svc.ErrAlreadyPaid) {
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(inv *core.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:          inv.ID,
		ClinicID:    inv.TenantID,
		VisitID:     inv.VisitID,
		Status:      inv.Status,
		TotalAmount: inv.TotalAmount,
		Items:       inv.Items,
		CreatedAt:   inv.CreatedAt,
		PaidAt:      inv.PaidAt,
	}
}

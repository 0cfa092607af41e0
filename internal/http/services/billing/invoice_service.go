package billing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/billing"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Service defines invoice operations. tenantID is always the effective
// tenant already authorized by the guard.
type Service interface {
	Create(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*core.Invoice, error)
	Get(ctx context.Context, tenantID, id string) (*core.Invoice, error)
	List(ctx context.Context, tenantID, status string) ([]core.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, id string) error
}

// Service errors
var (
	ErrMissingVisit = fmt.Errorf("visit_id is required")
	ErrNoItems      = fmt.Errorf("at least one item is required")
	ErrBadItem      = fmt.Errorf("items need description, positive quantity and non-negative price")
	ErrBadStatus    = fmt.Errorf("invalid invoice status filter")
	ErrAlreadyPaid  = fmt.Errorf("invoice is already paid")
)

type service struct {
	store core.Repository
}

// NewService creates a new invoice service.
func NewService(store core.Repository) Service {
	return &service{store: store}
}

// Create emite la factura sobre una visita. Los totales se calculan
// acá: el cliente solo manda cantidad y precio unitario.
func (s *service) Create(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*core.Invoice, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("billing"),
		logger.Op("Create"),
	)

	if req.VisitID == "" {
		return nil, ErrMissingVisit
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	if _, err := s.store.GetVisit(ctx, tenantID, req.VisitID); err != nil {
		return nil, err
	}

	items := make([]core.InvoiceItem, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, ErrBadItem
		}
		line := round2(float64(it.Quantity) * it.UnitPrice)
		items = append(items, core.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       line,
		})
		total += line
	}

	inv := &core.Invoice{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		VisitID:     req.VisitID,
		Status:      core.InvoicePending,
		TotalAmount: round2(total),
		Items:       items,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	log.Info("invoice created", logger.TenantID(tenantID), logger.String("invoice_id", inv.ID))
	return inv, nil
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*core.Invoice, error) {
	return s.store.GetInvoice(ctx, tenantID, id)
}

func (s *service) List(ctx context.Context, tenantID, status string) ([]core.Invoice, error) {
	switch status {
	case "", core.InvoicePending, core.InvoicePaid, core.InvoiceCancelled:
	default:
		return nil, ErrBadStatus
	}
	return s.store.ListInvoices(ctx, tenantID, status)
}

// MarkPaid es idempotente-hostil a propósito: pagar dos veces es un
// error del caller y devuelve conflicto.
func (s *service) MarkPaid(ctx context.Context, tenantID, id string) error {
	inv, err := s.store.GetInvoice(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inv.Status == core.InvoicePaid {
		return ErrAlreadyPaid
	}
	return s.store.MarkInvoicePaid(ctx, tenantID, id, time.Now().UTC())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

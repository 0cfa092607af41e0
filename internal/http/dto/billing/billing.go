package billing

import (
	"time"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// CreateInvoiceRequest contains the body for POST /api/invoices.
type CreateInvoiceRequest struct {
	VisitID string        `json:"visit_id"`
	Items   []ItemRequest `json:"items"`
}

// ItemRequest is one invoice line item. Total is computed server-side.
type ItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceResponse is the wire representation of an invoice.
type InvoiceResponse struct {
	ID          string             `json:"id"`
	ClinicID    string             `json:"clinic_id"`
	VisitID     string             `json:"visit_id"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	Items       []core.InvoiceItem `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`
}

// ListResponse wraps a list of invoices.
type ListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// Package notify encapsula el envío de avisos a pacientes. El proveedor
// real (SMS, email) es un colaborador externo; acá solo vive el adapter.
package notify

import (
	"context"
	"time"
)

// Notifier envía avisos best-effort: una falla se loguea y no bloquea el
// flujo que la disparó (ej: la confirmación de un turno recién creado).
type Notifier interface {
	AppointmentConfirmation(ctx context.Context, to, patientName string, at time.Time, tokenNumber int) error
}

// Noop descarta los avisos. Default en dev y tests.
type Noop struct{}

func (Noop) AppointmentConfirmation(context.Context, string, string, time.Time, int) error {
	return nil
}

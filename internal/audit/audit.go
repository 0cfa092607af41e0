// Package audit registra eventos de seguridad en el log estructurado
// bajo un logger dedicado, para poder filtrarlos y retenerlos aparte
// del tráfico normal.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// Event names.
const (
	SessionEstablished = "session.established"
	SessionCleared     = "session.cleared"
	TenantDenied       = "tenant.denied"
	PortalLogin        = "portal.login"
	ClinicCreated      = "clinic.created"
	UserOnboarded      = "user.onboarded"
)

// Record emite un evento de auditoría. Los fields siguen los helpers de
// logger (TenantID, UserID, etc.) para mantener claves consistentes.
func Record(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event,
		append([]zap.Field{zap.String("audit_event", event)}, fields...)...)
}

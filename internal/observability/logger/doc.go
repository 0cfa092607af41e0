// Package logger provides the singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init() en main.
//   - Context Scoping: el middleware de logging inyecta un logger por request
//     (request_id, method, path); los services lo extienden con los campos del
//     dominio clínico (tenant_id, patient_id, doctor_id) sin crear otro core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Campos: siempre via los helpers tipados de fields.go, nunca claves
//     sueltas, para que tenant_id se llame igual en todo el árbol.
//
// # Usage
//
// Inicialización (una vez, en cmd/clinicia):
//
//	logger.Init(logger.Config{
//	    Env:         cfg.App.Env,      // "dev" | "staging" | "prod"
//	    Level:       cfg.App.LogLevel, // "debug", "info", "warn", "error"
//	    ServiceName: "clinicia",
//	})
//	defer logger.Sync()
//
// En controllers/services (con contexto):
//
//	log := logger.From(ctx).With(logger.Component("patients"))
//	log.Info("patient created", logger.TenantID(tenantID), logger.PatientID(id))
package logger

// Package router arma el chi.Router completo de la API: middlewares
// globales, superficie /api, portal de pacientes, consola de operador y
// el fast-path de navegación de páginas.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/cache"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	adminctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/admin"
	apptctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/appointments"
	billingctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/billing"
	emrctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/emr"
	healthctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/health"
	patientsctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/patients"
	portalctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/portal"
	sessionctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/session"
	usersctrl "github.com/clinicia-hq/clinicia-server/internal/http/controllers/users"
	sessiondto "github.com/clinicia-hq/clinicia-server/internal/http/dto/session"
	mw "github.com/clinicia-hq/clinicia-server/internal/http/middlewares"
	adminsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/admin"
	apptsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/appointments"
	billingsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/billing"
	emrsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/emr"
	patientssvc "github.com/clinicia-hq/clinicia-server/internal/http/services/patients"
	portalsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/portal"
	sessionsvc "github.com/clinicia-hq/clinicia-server/internal/http/services/session"
	userssvc "github.com/clinicia-hq/clinicia-server/internal/http/services/users"
	"github.com/clinicia-hq/clinicia-server/internal/metrics"
	"github.com/clinicia-hq/clinicia-server/internal/notify"
	"github.com/clinicia-hq/clinicia-server/internal/rate"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Deps contiene todas las dependencias ya construidas del wiring.
type Deps struct {
	Store        core.Repository
	Verifier     auth.Verifier
	Resolver     *auth.SessionResolver
	PortalTokens *auth.PortalTokens
	Cache        cache.Cache
	Notifier     notify.Notifier

	// LoginLimiter protege los logins del portal y el establecimiento
	// de sesión. nil = sin rate limiting.
	LoginLimiter rate.Limiter

	// Cookie / navegación
	Cookie    sessiondto.CookieConfig
	LoginPath string
	HomePath  string

	// PageHandler atiende la navegación de páginas detrás del edge
	// gate. nil = placeholder 200.
	PageHandler http.Handler

	Version        string
	MetricsEnabled bool
	RedisCheck     func(ctx context.Context) error
	PortalTokenTTL time.Duration // 0 = default del service
}

// New construye el router completo.
func New(deps Deps) chi.Router {
	r := chi.NewRouter()

	// Services
	establishSvc := sessionsvc.NewEstablishService(sessionsvc.EstablishDeps{
		Verifier: deps.Verifier,
		Resolver: deps.Resolver,
		Cookie:   deps.Cookie,
	})
	patientSvc := patientssvc.NewService(deps.Store)
	bookingSvc := apptsvc.NewService(apptsvc.Deps{Store: deps.Store, Notifier: deps.Notifier})
	emrSvc := emrsvc.NewService(deps.Store)
	invoiceSvc := billingsvc.NewService(deps.Store)
	adminSvc := adminsvc.NewService(deps.Store, deps.Cache)
	portalSvc := portalsvc.NewService(portalsvc.Deps{
		Store:  deps.Store,
		Tokens: deps.PortalTokens,
		TTL:    deps.PortalTokenTTL,
	})
	userSvc := userssvc.NewService(deps.Store)

	// Controllers
	sessions := sessionctrl.NewController(establishSvc)
	patients := patientsctrl.NewController(patientSvc)
	appointments := apptctrl.NewController(bookingSvc)
	emr := emrctrl.NewController(emrSvc)
	billing := billingctrl.NewController(invoiceSvc)
	admin := adminctrl.NewController(adminSvc)
	portal := portalctrl.NewController(portalSvc)
	users := usersctrl.NewController(userSvc, deps.Verifier, deps.Cookie.Name)
	health := healthctrl.NewController(deps.Version, map[string]healthctrl.Checker{
		"postgres": deps.Store.Ping,
		"redis":    deps.RedisCheck,
	})

	// Middlewares globales
	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithRecover())
	r.Use(mw.WithSecurityHeaders())
	if deps.MetricsEnabled {
		r.Use(mw.WithMetrics())
	}

	requireSession := mw.RequireSession(deps.Verifier, deps.Resolver, deps.Cookie.Name)
	requirePortal := mw.RequirePortal(deps.PortalTokens)
	loginLimited := mw.WithRateLimit(deps.LoginLimiter, "login")

	// Health + métricas
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if deps.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Sesión: establecer requiere un token válido en el body, no
		// una sesión previa.
		r.Group(func(r chi.Router) {
			r.Use(loginLimited)
			r.Post("/auth/session", sessions.Establish)
		})
		r.Delete("/auth/session", sessions.Clear)

		// Onboarding: credencial válida sin sesión resoluble todavía.
		r.Post("/users/onboard", users.Onboard)

		// Portal de pacientes: nunca pasa por RequireSession.
		r.Route("/portal", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(loginLimited)
				r.Post("/login", portal.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(requirePortal)
				r.Get("/me", portal.Profile)
				r.Get("/appointments", portal.Appointments)
				r.Get("/visits", portal.Visits)
			})
		})

		// Superficie staff: verify → resolve en cada request.
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/users/me", users.Me)
			r.Get("/users/doctors", users.ListDoctors)

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", patients.Search)
				r.Post("/", patients.Create)
				r.Get("/{id}", patients.Get)
				r.Put("/{id}", patients.Update)
				r.Post("/{id}/access-code", patients.SetAccessCode)
				r.Get("/{id}/appointments", appointments.ListByPatient)
				r.Get("/{id}/visits", emr.ListVisits)
				r.Get("/{id}/vitals", emr.ListVitals)
				r.Post("/{id}/vitals", emr.RecordVitals)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", appointments.ListDay)
				r.Post("/", appointments.Book)
				r.Get("/{id}", appointments.Get)
				r.Patch("/{id}/status", appointments.UpdateStatus)
				r.Delete("/{id}", appointments.Cancel)
			})

			r.Route("/visits", func(r chi.Router) {
				r.Post("/", emr.CreateVisit)
				r.Get("/{id}", emr.GetVisit)
				r.Post("/{id}/prescriptions", emr.AddPrescription)
				r.Get("/{id}/prescriptions", emr.ListPrescriptions)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", billing.List)
				r.Post("/", billing.Create)
				r.Get("/{id}", billing.Get)
				r.Post("/{id}/pay", billing.MarkPaid)
			})

			// Consola de operador: solo SUPER_ADMIN.
			r.Route("/admin", func(r chi.Router) {
				r.Use(mw.RequireRole(types.RoleSuperAdmin))
				r.Get("/clinics", admin.ListClinics)
				r.Post("/clinics", admin.CreateClinic)
				r.Get("/users", admin.ListUsers)
				r.Get("/stats", admin.Stats)
			})
		})
	})

	// Navegación de páginas: el edge gate clasifica el path y decide
	// allow / redirect SIN verificar firma. Los handlers de /api nunca
	// pasan por acá.
	page := deps.PageHandler
	if page == nil {
		page = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	edgeGate := mw.WithEdgeGate(mw.EdgeConfig{
		CookieName: deps.Cookie.Name,
		LoginPath:  deps.LoginPath,
		HomePath:   deps.HomePath,
	})
	r.NotFound(edgeGate(page).ServeHTTP)

	return r
}

package middlewares

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
)

// =================================================================================
// ROUTE CLASSIFICATION
// =================================================================================

// RouteClass clasifica un path en exactamente una de tres clases.
type RouteClass int

const (
	// RouteProtected exige sesión; es el default para paths sin match.
	RouteProtected RouteClass = iota
	// RoutePublic se permite siempre (legales, portal de pacientes, landing).
	RoutePublic
	// RouteAuthOnly es solo para visitantes sin sesión (login, registro);
	// con sesión fresca se redirige al dashboard.
	RouteAuthOnly
)

type routeRule struct {
	class  RouteClass
	path   string
	prefix bool // true: matchea path y path/*
}

// EdgeRules es la tabla estática y ordenada de clasificación de rutas.
// Primer match gana; sin match el path es protegido.
type EdgeRules struct {
	rules []routeRule
}

// DefaultEdgeRules arma la tabla de rutas de la aplicación.
func DefaultEdgeRules() *EdgeRules {
	er := &EdgeRules{}
	er.AuthOnly("/login", false)
	er.AuthOnly("/signup", false)
	er.AuthOnly("/register", true)
	er.AuthOnly("/pricing", false)
	er.Public("/", false)
	er.Public("/terms", false)
	er.Public("/privacy", false)
	er.Public("/refund", false)
	er.Public("/cookies", false)
	er.Public("/p", true)
	er.Public("/portal", true)
	return er
}

// AuthOnly agrega una regla auth-only. prefix=true también matchea subpaths.
func (er *EdgeRules) AuthOnly(path string, prefix bool) *EdgeRules {
	er.rules = append(er.rules, routeRule{class: RouteAuthOnly, path: path, prefix: prefix})
	return er
}

// Public agrega una regla pública.
func (er *EdgeRules) Public(path string, prefix bool) *EdgeRules {
	er.rules = append(er.rules, routeRule{class: RoutePublic, path: path, prefix: prefix})
	return er
}

// Classify resuelve la clase de un path. Total: siempre devuelve una clase.
func (er *EdgeRules) Classify(path string) RouteClass {
	for _, rule := range er.rules {
		if path == rule.path {
			return rule.class
		}
		if rule.prefix && strings.HasPrefix(path, rule.path+"/") {
			return rule.class
		}
		// /register* también matchea /registerX en el original; lo
		// conservamos solo para prefijos declarados
		if rule.prefix && strings.HasPrefix(path, rule.path) {
			return rule.class
		}
	}
	return RouteProtected
}

// =================================================================================
// EDGE MIDDLEWARE
// =================================================================================

// EdgeConfig configura el fast-path de navegación.
type EdgeConfig struct {
	Rules      *EdgeRules
	CookieName string
	LoginPath  string
	HomePath   string
	// Now permite inyectar el reloj en tests.
	Now func() time.Time
}

// WithEdgeGate implementa el fast-path cookie-based para navegación de
// páginas: clasifica el path y decide Allow / RedirectToLogin /
// RedirectToDashboard usando SOLO la inspección local de exp (sin firma,
// sin red, sin store). No es un límite de seguridad: todo handler
// protegido re-verifica con RequireSession.
//
// Estados de cookie: ausente, presente-fresca, presente-expirada-o-malformada.
// Malformada se trata igual que ausente (fail closed).
func WithEdgeGate(cfg EdgeConfig) Middleware {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultEdgeRules()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	homePath := cfg.HomePath
	if homePath == "" {
		homePath = "/dashboard"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			var token string
			if ck, err := r.Cookie(cfg.CookieName); err == nil {
				token = ck.Value
			}
			fresh := token != "" && auth.TokenFresh(token, now())

			switch rules.Classify(path) {
			case RouteAuthOnly:
				if fresh {
					// Usuario ya autenticado: no mostrarle el login
					http.Redirect(w, r, homePath, http.StatusSeeOther)
					return
				}
			case RoutePublic:
				// allow incondicional
			case RouteProtected:
				if !fresh {
					if token != "" {
						// Cookie vencida o rota: limpiarla
						http.SetCookie(w, &http.Cookie{
							Name:     cfg.CookieName,
							Value:    "",
							Path:     "/",
							MaxAge:   -1,
							HttpOnly: true,
						})
					}
					// Preservar el destino para el redirect post-login
					dest := loginPath + "?redirect=" + url.QueryEscape(path)
					http.Redirect(w, r, dest, http.StatusSeeOther)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clinicia-hq/clinicia-server/internal/audit"
	"github.com/clinicia-hq/clinicia-server/internal/cache"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/admin"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// statsCacheKey / statsCacheTTL: los agregados de la consola se cachean
// unos segundos; la consola los refresca en loop.
const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 30 * time.Second
)

// Service is the platform-operator surface. All methods assume the
// caller already passed the SUPER_ADMIN role check.
type Service interface {
	CreateClinic(ctx context.Context, req dto.CreateClinicRequest) (*core.Clinic, error)
	ListClinics(ctx context.Context) ([]core.Clinic, error)
	ListUsers(ctx context.Context, tenantID string) ([]core.User, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// Service errors
var (
	ErrMissingName = fmt.Errorf("name is required")
	ErrBadSlug     = fmt.Errorf("slug must be lowercase letters, digits and dashes")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type service struct {
	store core.Repository
	cache cache.Cache
}

// NewService creates a new admin service.
func NewService(store core.Repository, c cache.Cache) Service {
	return &service{store: store, cache: c}
}

func (s *service) CreateClinic(ctx context.Context, req dto.CreateClinicRequest) (*core.Clinic, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("CreateClinic"),
	)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if slug == "" {
		slug = slugify(name)
	}
	if !slugRe.MatchString(slug) {
		return nil, ErrBadSlug
	}

	c := &core.Clinic{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateClinic(ctx, c); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Delete(statsCacheKey)
	}
	log.Info("clinic created", logger.TenantID(c.ID), logger.String("slug", slug))
	audit.Record(ctx, audit.ClinicCreated, logger.TenantID(c.ID), logger.String("slug", slug))
	return c, nil
}

func (s *service) ListClinics(ctx context.Context) ([]core.Clinic, error) {
	return s.store.ListClinics(ctx)
}

// ListUsers lista staff. tenantID vacío = todos los tenants (solo la
// consola llega acá, el guard ya dejó pasar únicamente SUPER_ADMIN).
func (s *service) ListUsers(ctx context.Context, tenantID string) ([]core.User, error) {
	return s.store.ListUsers(ctx, tenantID)
}

// Stats arma el dashboard: agregados + clínicas recientes en paralelo.
func (s *service) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(statsCacheKey); ok {
			var cached dto.StatsResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var (
		stats   core.PlatformStats
		clinics []core.Clinic
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.store.CountStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clinics, err = s.store.ListClinics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	const recentMax = 5
	if len(clinics) > recentMax {
		clinics = clinics[:recentMax]
	}
	resp := &dto.StatsResponse{
		Clinics:      stats.Clinics,
		Users:        stats.Users,
		Patients:     stats.Patients,
		Appointments: stats.Appointments,
		Recent:       make([]dto.ClinicResponse, 0, len(clinics)),
	}
	for _, c := range clinics {
		resp.Recent = append(resp.Recent, dto.ClinicResponse{
			ID:        c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		})
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			s.cache.Set(statsCacheKey, raw, statsCacheTTL)
		}
	}
	return resp, nil
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/audit"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/users"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Service defines staff-account operations.
type Service interface {
	// Onboard links a verified identity-provider subject to a new User
	// row. It is the only operation reachable with a credential that
	// does not yet resolve to a session.
	Onboard(ctx context.Context, principal types.Principal, req dto.OnboardRequest) (*core.User, error)
	Get(ctx context.Context, tenantID, id string) (*core.User, error)
	ListDoctors(ctx context.Context, tenantID string) ([]core.User, error)
}

// Service errors
var (
	ErrMissingClinic = fmt.Errorf("clinic_id is required")
	ErrMissingName   = fmt.Errorf("name is required")
	ErrBadRole       = fmt.Errorf("role must be DOCTOR or ADMIN")
)

type service struct {
	store core.Repository
}

// NewService creates a new user service.
func NewService(store core.Repository) Service {
	return &service{store: store}
}

func (s *service) Onboard(ctx context.Context, principal types.Principal, req dto.OnboardRequest) (*core.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("users"),
		logger.Op("Onboard"),
	)

	if req.ClinicID == "" {
		return nil, ErrMissingClinic
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	// SUPER_ADMIN nunca se auto-asigna: se provisiona por consola.
	role, ok := types.ParseRole(req.Role)
	if !ok || role == types.RoleSuperAdmin {
		return nil, ErrBadRole
	}

	// La clínica tiene que existir.
	if _, err := s.store.GetClinic(ctx, req.ClinicID); err != nil {
		return nil, err
	}

	u := &core.User{
		ID:        uuid.NewString(),
		TenantID:  req.ClinicID,
		SubjectID: principal.SubjectID,
		Email:     strings.ToLower(principal.Email),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	log.Info("user onboarded",
		logger.UserID(u.ID),
		logger.TenantID(u.TenantID),
		logger.Role(string(u.Role)),
	)
	audit.Record(ctx, audit.UserOnboarded,
		logger.UserID(u.ID), logger.TenantID(u.TenantID), logger.Role(string(u.Role)))
	return u, nil
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*core.User, error) {
	return s.store.GetUser(ctx, tenantID, id)
}

func (s *service) ListDoctors(ctx context.Context, tenantID string) ([]core.User, error) {
	return s.store.ListDoctors(ctx, tenantID)
}

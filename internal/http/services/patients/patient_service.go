package patients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/patients"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Service defines patient operations. tenantID is always the effective
// tenant already authorized by the guard.
type Service interface {
	Create(ctx context.Context, tenantID string, req dto.CreatePatientRequest) (*core.Patient, error)
	Get(ctx context.Context, tenantID, id string) (*core.Patient, error)
	Update(ctx context.Context, tenantID, id string, req dto.UpdatePatientRequest) (*core.Patient, error)
	Search(ctx context.Context, tenantID, q string, limit int) ([]core.Patient, error)
	SetAccessCode(ctx context.Context, tenantID, id, code string) error
}

// Service errors
var (
	ErrMissingName      = fmt.Errorf("first_name and last_name are required")
	ErrMissingPhone     = fmt.Errorf("phone is required")
	ErrBadBirthDate     = fmt.Errorf("birth_date must be YYYY-MM-DD")
	ErrAccessCodeLength = fmt.Errorf("access_code must be at least 6 characters")
)

type service struct {
	store core.Repository
}

// NewService creates a new patient service.
func NewService(store core.Repository) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, tenantID string, req dto.CreatePatientRequest) (*core.Patient, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("patients"),
		logger.Op("Create"),
	)

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	phone := normalizePhone(req.Phone)
	if first == "" || last == "" {
		return nil, ErrMissingName
	}
	if phone == "" {
		return nil, ErrMissingPhone
	}

	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	p := &core.Patient{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Email:     strings.TrimSpace(strings.ToLower(req.Email)),
		Gender:    strings.ToUpper(strings.TrimSpace(req.Gender)),
		BirthDate: birth,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePatient(ctx, p); err != nil {
		return nil, err
	}

	log.Info("patient created", logger.PatientID(p.ID), logger.TenantID(tenantID))
	return p, nil
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*core.Patient, error) {
	return s.store.GetPatient(ctx, tenantID, id)
}

func (s *service) Update(ctx context.Context, tenantID, id string, req dto.UpdatePatientRequest) (*core.Patient, error) {
	p, err := s.store.GetPatient(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		p.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		p.LastName = v
	}
	if v := normalizePhone(req.Phone); v != "" {
		p.Phone = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		p.Email = strings.ToLower(v)
	}
	if v := strings.TrimSpace(req.Gender); v != "" {
		p.Gender = strings.ToUpper(v)
	}
	if req.BirthDate != "" {
		birth, err := parseBirthDate(req.BirthDate)
		if err != nil {
			return nil, err
		}
		p.BirthDate = birth
	}

	if err := s.store.UpdatePatient(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Search(ctx context.Context, tenantID, q string, limit int) ([]core.Patient, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.SearchPatients(ctx, tenantID, strings.TrimSpace(q), limit)
}

// SetAccessCode enables portal access for the patient. Only the bcrypt
// hash is stored.
func (s *service) SetAccessCode(ctx context.Context, tenantID, id, code string) error {
	if len(code) < 6 {
		return ErrAccessCodeLength
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.SetPatientAccessHash(ctx, tenantID, id, string(hash))
}

func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, ErrBadBirthDate
	}
	return &t, nil
}

package license

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
	licensestore "github.com/de-tools/seo-atlas/pkg/store/duckdb/license"
)

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

var keyPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Validator decides whether a license key grants entitlement.
type Validator interface {
	Validate(ctx context.Context, key string) error
}

// FormatValidator accepts any key shaped XXXX-XXXX-XXXX-XXXX.
type FormatValidator struct{}

func (FormatValidator) Validate(_ context.Context, key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: invalid license key format", domain.ErrValidation)
	}
	return nil
}

type Manager interface {
	Activate(ctx context.Context, key string) error
	Deactivate(ctx context.Context) error
	IsEntitled(ctx context.Context) (bool, error)
	Current(ctx context.Context) (domain.License, error)
}

type manager struct {
	store     licensestore.Store
	validator Validator
}

func NewManager(store licensestore.Store, validator Validator) (Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("license store is nil")
	}
	if validator == nil {
		validator = FormatValidator{}
	}
	return &manager{store: store, validator: validator}, nil
}

func (m *manager) Activate(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: please enter a license key", domain.ErrValidation)
	}
	if err := m.validator.Validate(ctx, key); err != nil {
		return err
	}

	if err := m.store.Put(ctx, store.LicenseState{LicenseKey: key, Status: domain.LicenseStatusValid}); err != nil {
		return fmt.Errorf("activate license: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("license", MaskKey(key)).Msg("license activated")
	return nil
}

func (m *manager) Deactivate(ctx context.Context) error {
	if err := m.store.Put(ctx, store.LicenseState{Status: domain.LicenseStatusFree}); err != nil {
		return fmt.Errorf("deactivate license: %w", err)
	}
	zerolog.Ctx(ctx).Info().Msg("license deactivated")
	return nil
}

func (m *manager) IsEntitled(ctx context.Context) (bool, error) {
	l, err := m.Current(ctx)
	if err != nil {
		return false, err
	}
	return Entitled(l), nil
}

func (m *manager) Current(ctx context.Context) (domain.License, error) {
	state, err := m.store.Get(ctx)
	if err != nil {
		return domain.License{}, fmt.Errorf("read license: %w", err)
	}
	return domain.License{
		Key:       state.LicenseKey,
		Status:    state.Status,
		UpdatedAt: state.UpdatedAt,
	}, nil
}

// Entitled requires both a valid status and a stored key.
func Entitled(l domain.License) bool {
	return l.Status == domain.LicenseStatusValid && l.Key != ""
}

func Plan(l domain.License) string {
	if Entitled(l) {
		return PlanPro
	}
	return PlanFree
}

// MaskKey keeps the first and last four characters: ABCD-****-****-WXYZ.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "-****-****-" + key[len(key)-4:]
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/roamer/internal/domain"
)

var ErrNotFound = errors.New("not found")

// CatalogSnapshot records one catalog import. Only the latest snapshot's
// plans are kept.
type CatalogSnapshot struct {
	ID         string
	Source     string
	ImportedAt time.Time
	PlanCount  int
}

// PromoRecord is a stored promo recurrence for one provider.
type PromoRecord struct {
	ProviderID string
	Recurrence domain.PromoRecurrence
	Name       string
	UpdatedAt  time.Time
}

type PlanRepo interface {
	// ReplaceAll drops every stored plan and stores plans under snap, in order.
	ReplaceAll(ctx context.Context, snap *CatalogSnapshot, plans []*domain.Plan) error
	List(ctx context.Context) ([]*domain.Plan, error)
	ListByCountry(ctx context.Context, country string) ([]*domain.Plan, error)
	Count(ctx context.Context) (int, error)
	LatestSnapshot(ctx context.Context) (*CatalogSnapshot, error)
}

type PromoRepo interface {
	Upsert(ctx context.Context, rec *PromoRecord) error
	List(ctx context.Context) ([]*PromoRecord, error)
	Table(ctx context.Context) (domain.PromoTable, error)
	Delete(ctx context.Context, providerID string) error
}

type OverrideRepo interface {
	// Add appends a rule after every stored rule.
	Add(ctx context.Context, rule *domain.OverrideRule) error
	List(ctx context.Context) ([]domain.OverrideRule, error)
	Delete(ctx context.Context, id string) error
	Replace(ctx context.Context, rules []domain.OverrideRule) error
}

// SettingsRepo stores run defaults imported alongside override rules.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

package app

import (
	"context"

	"github.com/alexanderramin/roamer/internal/domain"
)

type OptimizeUseCase interface {
	Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error)
}

type CatalogUseCase interface {
	Import(ctx context.Context, path string) (*CatalogSummary, error)
	List(ctx context.Context, country string) ([]*domain.Plan, error)
	Summary(ctx context.Context) (*CatalogSummary, error)
}

type PromoUseCase interface {
	Import(ctx context.Context, path string) (int, error)
	Set(ctx context.Context, providerID, recurrence string) error
	List(ctx context.Context) ([]PromoEntry, error)
}

type OverrideUseCase interface {
	Import(ctx context.Context, path string) (*OverrideImportResult, error)
	Add(ctx context.Context, rule domain.OverrideRule) (*domain.OverrideRule, error)
	List(ctx context.Context) ([]domain.OverrideRule, error)
	Remove(ctx context.Context, id string) error
}

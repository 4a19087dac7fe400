package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/repository"
)

type catalogService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCatalogService(plans repository.PlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) app.CatalogUseCase {
	return &catalogService{
		plans:    plans,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Import validates the whole file first, then swaps the stored catalog in
// one transaction. A failed import leaves the previous catalog in place.
func (s *catalogService) Import(ctx context.Context, path string) (summary *app.CatalogSummary, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "import-catalog", fields, &err)()

	plans, err := importer.ReadCatalog(path)
	if err != nil {
		return nil, err
	}
	fields["plans"] = len(plans)

	snap := &repository.CatalogSnapshot{
		ID:         uuid.New().String(),
		Source:     path,
		ImportedAt: time.Now().UTC(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).ReplaceAll(ctx, snap, plans)
	})
	if err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}
	return summarize(snap, plans), nil
}

func (s *catalogService) List(ctx context.Context, country string) ([]*domain.Plan, error) {
	if country == "" {
		return s.plans.List(ctx)
	}
	return s.plans.ListByCountry(ctx, country)
}

func (s *catalogService) Summary(ctx context.Context) (*app.CatalogSummary, error) {
	snap, err := s.plans.LatestSnapshot(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmptyCatalog
		}
		return nil, err
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(snap, plans), nil
}

func summarize(snap *repository.CatalogSnapshot, plans []*domain.Plan) *app.CatalogSummary {
	sum := &app.CatalogSummary{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		ImportedAt: snap.ImportedAt,
		Plans:      len(plans),
	}
	providers := make(map[string]bool)
	countries := make(map[string]bool)
	for _, p := range plans {
		providers[p.ProviderID] = true
		for _, c := range p.Scope.Countries() {
			countries[c] = true
		}
		if p.Scope.IsLocal() {
			sum.Local++
		} else {
			sum.Regional++
		}
		if p.IsUnlimited() {
			sum.Unlimited++
		}
		if p.IsFree() {
			sum.Free++
		}
	}
	sum.Providers = len(providers)
	for c := range countries {
		sum.Countries = append(sum.Countries, c)
	}
	sort.Strings(sum.Countries)
	return sum
}

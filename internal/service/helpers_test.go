package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/repository"
	"github.com/alexanderramin/roamer/internal/testutil"
)

type testServices struct {
	db        *sql.DB
	plans     *repository.SQLitePlanRepo
	promos    *repository.SQLitePromoRepo
	overrides *repository.SQLiteOverrideRepo
	settings  *repository.SQLiteSettingsRepo
	observer  *recordingObserver

	catalog  app.CatalogUseCase
	promo    app.PromoUseCase
	override app.OverrideUseCase
	optimize app.OptimizeUseCase
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestServicesWithUoW(database, testutil.NewTestUoW(database))
}

func newTestServicesWithUoW(database *sql.DB, uow db.UnitOfWork) *testServices {
	s := &testServices{
		db:        database,
		plans:     repository.NewSQLitePlanRepo(database),
		promos:    repository.NewSQLitePromoRepo(database),
		overrides: repository.NewSQLiteOverrideRepo(database),
		settings:  repository.NewSQLiteSettingsRepo(database),
		observer:  &recordingObserver{},
	}
	s.catalog = NewCatalogService(s.plans, uow, s.observer)
	s.promo = NewPromoService(s.promos, uow, s.observer)
	s.override = NewOverrideService(s.overrides, uow, s.observer)
	s.optimize = NewOptimizeService(s.plans, s.promos, s.overrides, s.settings, nil, s.observer)
	return s
}

// writeFile writes content under the test's temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

const germanyCatalog = `{
  "plans": [
    {"id": "de-3gb", "provider_id": "local-co", "provider_name": "LocalCo", "name": "DE 3GB",
     "coverage_type": "local", "countries": ["DE"], "data_mb": 3072, "validity_days": 7, "price": 4.00},
    {"id": "eu-5gb", "provider_id": "euro-sim", "provider_name": "EuroSim", "name": "Europe 5GB",
     "coverage_type": "regional", "countries": ["DE", "FR", "IT"], "data_mb": 5120, "validity_days": 30, "price": 9.00},
    {"id": "fr-unl", "provider_id": "euro-sim", "provider_name": "EuroSim", "name": "France Unlimited",
     "coverage_type": "local", "countries": ["FR"], "unlimited": true, "validity_days": 10, "price": 12.00}
  ]
}`

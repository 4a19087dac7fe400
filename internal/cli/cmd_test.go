package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roamer/internal/config"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/repository"
	"github.com/alexanderramin/roamer/internal/service"
	"github.com/alexanderramin/roamer/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	plans := repository.NewSQLitePlanRepo(database)
	promos := repository.NewSQLitePromoRepo(database)
	overrides := repository.NewSQLiteOverrideRepo(database)
	settings := repository.NewSQLiteSettingsRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	return &App{
		Optimize:  service.NewOptimizeService(plans, promos, overrides, settings, nil),
		Catalog:   service.NewCatalogService(plans, uow),
		Promos:    service.NewPromoService(promos, uow),
		Overrides: service.NewOverrideService(overrides, uow),
		// Config left nil: built-in defaults.
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testCatalog = `{
  "plans": [
    {"id": "de-3gb", "provider_id": "local-co", "provider_name": "LocalCo", "name": "DE 3GB",
     "coverage_type": "local", "countries": ["DE"], "data_mb": 3072, "validity_days": 7, "price": 4.00},
    {"id": "eu-5gb", "provider_id": "euro-sim", "provider_name": "EuroSim", "name": "Europe 5GB",
     "coverage_type": "regional", "countries": ["DE", "FR", "IT"], "data_mb": 5120, "validity_days": 30,
     "price": 9.00, "promo_price": 6.00}
  ]
}`

// seedCatalog imports testCatalog into the app's store.
func seedCatalog(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "catalog", "import", writeFile(t, "catalog.json", testCatalog))
	require.NoError(t, err)
}

// --- catalog ---

func TestCatalogCmd_ImportListShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "catalog", "import", writeFile(t, "catalog.json", testCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 plan(s) from 2 provider(s).")

	out, err = executeCmd(t, app, "catalog", "list", "--country", "fr")
	require.NoError(t, err)
	assert.Contains(t, out, "eu-5gb")
	assert.NotContains(t, out, "de-3gb")

	out, err = executeCmd(t, app, "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "DE FR IT")
}

func TestCatalogCmd_ShowEmpty(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "catalog", "show")
	assert.ErrorIs(t, err, service.ErrEmptyCatalog)
}

func TestCatalogCmd_ImportRequiresFile(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "catalog", "import")
	assert.Error(t, err)
}

// --- optimize ---

func TestOptimizeCmd_Segments(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--segment", "DE:5:2GB", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "#1  $4.00")
	assert.Contains(t, out, "LocalCo: DE 3GB")
	assert.Contains(t, out, "#2  $6.00")
	assert.Contains(t, out, "[PROMO]")
}

func TestOptimizeCmd_MultiCountry(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--segment", "DE:5:2000", "--segment", "FR:3:500MB")
	require.NoError(t, err)
	assert.Contains(t, out, "#1  $6.00")
	assert.Contains(t, out, "EuroSim: Europe 5GB")
}

func TestOptimizeCmd_SingleRegion(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--days", "6", "--data-gb", "2", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1  $4.00")
	assert.NotContains(t, out, "#2")
}

func TestOptimizeCmd_CatalogFileAndCurrency(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "optimize",
		"--catalog", writeFile(t, "catalog.json", testCatalog),
		"--segment", "DE:5:2GB", "--currency", "cad", "--rate", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "(6.00 CAD)")
}

func TestOptimizeCmd_HassleFlag(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--segment", "DE:10:5GB", "--hassle", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "hassle $2.00 per extra plan")
}

func TestOptimizeCmd_NoFeasible(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--segment", "JP:3:1GB")
	require.NoError(t, err)
	assert.Contains(t, out, "No feasible combination found.")
}

func TestOptimizeCmd_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "optimize", "--segment", "DE:5:2GB")
	assert.ErrorIs(t, err, service.ErrEmptyCatalog)

	seedCatalog(t, app)

	tests := []struct {
		name string
		args []string
	}{
		{"bad segment", []string{"--segment", "DE:five:2GB"}},
		{"segment missing data", []string{"--segment", "DE:5"}},
		{"segment and days", []string{"--segment", "DE:5:2GB", "--days", "3", "--data-gb", "1"}},
		{"days without data", []string{"--days", "3"}},
		{"currency without rate", []string{"--segment", "DE:5:2GB", "--currency", "EUR"}},
		{"unknown promo as unknown", []string{"--segment", "DE:5:2GB", "--unknown-promo", "unknown"}},
		{"no itinerary", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, append([]string{"optimize"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestOptimizeCmd_ConfigDefaults(t *testing.T) {
	app := testApp(t)
	app.Config = &config.Config{
		Search: config.SearchConfig{
			MaxPlans: 4, RepeatCap: 2, TopK: 1, HassleUnit: 25, SearchSpace: 60,
			UnknownPromoAs: "UNLIMITED",
		},
		Display: config.DisplayConfig{Currency: "EUR", Rate: 0.5},
	}
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "optimize", "--segment", "DE:5:2GB")
	require.NoError(t, err)
	assert.Contains(t, out, "(2.00 EUR)")
	assert.Contains(t, out, "hassle $0.25 per extra plan")
	assert.NotContains(t, out, "#2")
}

// --- promo ---

func TestPromoCmd_SetList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "promo", "set", "euro-sim", "one-time")
	require.NoError(t, err)
	assert.Contains(t, out, "euro-sim promo set to one-time")

	out, err = executeCmd(t, app, "promo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "euro-sim")
	assert.Contains(t, out, "one-time")

	_, err = executeCmd(t, app, "promo", "set", "euro-sim", "sometimes")
	assert.Error(t, err)
}

func TestPromoCmd_Import(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "promo", "import", writeFile(t, "promos.yaml", "airalo: one-time\nholafly: unlimited\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "2 provider(s)")
}

// --- override ---

func TestOverrideCmd_AddListRemove(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "override", "add", "--plan", "de-3gb", "--exclude", "--note", "sold out")
	require.NoError(t, err)
	assert.Contains(t, out, `Added override`)

	out, err = executeCmd(t, app, "override", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "plan=de-3gb")
	assert.Contains(t, out, "sold out")

	rules, err := app.Overrides.List(t.Context())
	require.NoError(t, err)
	require.Len(t, rules, 1)

	out, err = executeCmd(t, app, "override", "remove", rules[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Removed override")

	out, err = executeCmd(t, app, "override", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No overrides.")
}

func TestOverrideCmd_ExcludeAffectsOptimize(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	_, err := executeCmd(t, app, "override", "add", "--plan", "de-3gb", "--exclude")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "optimize", "--segment", "DE:5:2GB")
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "LocalCo: DE 3GB"))
	assert.Contains(t, out, "#1  $6.00")
}

func TestOverrideCmd_AddErrors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "override", "add", "--exclude")
	assert.Error(t, err, "a match flag is required")

	_, err = executeCmd(t, app, "override", "add", "--plan", "a", "--provider", "b", "--exclude")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "override", "add", "--plan", "a", "--promo-type", "one-time")
	assert.Error(t, err, "recurrence is provider-only")

	_, err = executeCmd(t, app, "override", "remove", "nope")
	assert.Error(t, err)
}

func TestOverrideCmd_Import(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "override", "import", writeFile(t, "overrides.yaml", `default_hassle_penalty: 0.75
provider_promo_overrides:
  euro-sim: one-time
`))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 override rule(s).")
	assert.Contains(t, out, "$0.75")
}

// --- version ---

func TestVersionCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "roamer dev\n", out)
}

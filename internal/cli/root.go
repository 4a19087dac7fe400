package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/cli/formatter"
	"github.com/alexanderramin/roamer/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// App holds references to all use cases used by CLI commands.
type App struct {
	Optimize  app.OptimizeUseCase
	Catalog   app.CatalogUseCase
	Promos    app.PromoUseCase
	Overrides app.OverrideUseCase

	// Config supplies flag defaults. Nil means built-in defaults.
	Config *config.Config
}

func (a *App) currency() formatter.Currency {
	if a.Config == nil {
		return formatter.Currency{}
	}
	return formatter.Currency{Code: a.Config.Display.Currency, Rate: a.Config.Display.Rate}
}

func defaultTimeout(a *App) time.Duration {
	if a.Config == nil {
		return 0
	}
	return a.Config.Search.Timeout
}

// NewRootCmd creates the top-level "roamer" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "roamer",
		Short:         "Find the cheapest eSIM plan combination for a trip",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newOptimizeCmd(app),
		newCatalogCmd(app),
		newPromoCmd(app),
		newOverrideCmd(app),
		newVersionCmd(),
	)

	return root
}

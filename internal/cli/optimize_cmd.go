package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/cli/formatter"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/optimizer"
)

func newOptimizeCmd(a *App) *cobra.Command {
	var (
		segments                  segmentsValue
		days, dataGB, hassle      float64
		itineraryPath, catalog    string
		promos, overrides         string
		unknownPromo, currencyArg string
		rate                      float64
	)

	params := optimizer.DefaultParams()
	if a.Config != nil {
		params = a.Config.SearchParams()
	}
	timeout := defaultTimeout(a)
	cur := a.currency()

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rank the cheapest plan combinations for an itinerary",
		Long: `Search the catalog for the cheapest combinations of eSIM plans that cover
every segment of a trip.

Give the trip as repeated --segment COUNTRY:DAYS:DATA flags, as a single
region with --days and --data-gb, or as an itinerary file.`,
		Example: `  roamer optimize --segment DE:10:5GB --segment FR:4:2GB
  roamer optimize --days 6 --data-gb 5 --catalog plans.json
  roamer optimize --itinerary trip.yaml --top 3 --currency CAD --rate 1.37`,
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := itineraryFromFlags(cmd, segments.segments, days, dataGB)
			if err != nil {
				return err
			}

			req := app.OptimizeRequest{
				Itinerary:     it,
				ItineraryPath: itineraryPath,
				CatalogPath:   catalog,
				PromosPath:    promos,
				OverridesPath: overrides,
				Params:        params,
				Timeout:       timeout,
			}
			if cmd.Flags().Changed("hassle") {
				if hassle < 0 {
					return fmt.Errorf("--hassle must not be negative")
				}
				req.Params.HassleUnit = domain.Cents(hassle)
				req.HassleSet = true
			}
			if cmd.Flags().Changed("unknown-promo") {
				r, err := domain.ParsePromoRecurrence(unknownPromo)
				if err != nil {
					return fmt.Errorf("--unknown-promo: %w", err)
				}
				if r == domain.PromoUnknown {
					return fmt.Errorf("--unknown-promo must be one-time or unlimited")
				}
				req.Params.UnknownPromoAs = r
				req.UnknownPromoSet = true
			}

			display := cur
			if cmd.Flags().Changed("currency") {
				display = formatter.Currency{Code: strings.ToUpper(currencyArg), Rate: rate}
			} else if cmd.Flags().Changed("rate") {
				display.Rate = rate
			}
			if display.Code != "" && display.Rate <= 0 {
				return fmt.Errorf("--rate must be positive when a display currency is set")
			}

			resp, err := a.Optimize.Optimize(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOptimize(resp, display))
			return nil
		},
	}

	f := cmd.Flags()
	f.Var(&segments, "segment", "trip segment COUNTRY:DAYS:DATA, e.g. DE:10:5GB (repeatable)")
	f.Float64Var(&days, "days", 0, "trip length in days for a single-region trip")
	f.Float64Var(&dataGB, "data-gb", 0, "total data in GB for a single-region trip")
	f.StringVar(&itineraryPath, "itinerary", "", "itinerary file (JSON or YAML)")
	f.StringVar(&catalog, "catalog", "", "catalog file (JSON or CSV) instead of the stored catalog")
	f.StringVar(&promos, "promos", "", "promo recurrence file instead of the stored table")
	f.StringVar(&overrides, "overrides", "", "overrides file instead of the stored rules")
	f.IntVar(&params.MaxPlans, "max-plans", params.MaxPlans, "maximum plans per combination")
	f.IntVar(&params.RepeatCap, "repeat-cap", params.RepeatCap, "maximum copies of one plan per combination")
	f.IntVar(&params.TopK, "top", params.TopK, "number of combinations to show")
	f.Float64Var(&hassle, "hassle", params.HassleUnit.Dollars(), "ranking penalty in dollars per plan beyond the first")
	f.StringVar(&unknownPromo, "unknown-promo", "", "treat providers with unknown promo terms as one-time or unlimited")
	f.IntVar(&params.SearchSpace, "search-space", params.SearchSpace, "plans kept after pruning by cost per day (0 keeps all)")
	f.IntVar(&params.Workers, "workers", params.Workers, "parallel search workers (0 uses every CPU)")
	f.DurationVar(&timeout, "timeout", timeout, "stop searching after this long and report the best found (0 = no limit)")
	f.StringVar(&currencyArg, "currency", cur.Code, "secondary display currency code")
	f.Float64Var(&rate, "rate", cur.Rate, "units of --currency per USD")

	cmd.MarkFlagsMutuallyExclusive("segment", "days")
	cmd.MarkFlagsMutuallyExclusive("segment", "itinerary")
	cmd.MarkFlagsMutuallyExclusive("days", "itinerary")
	cmd.MarkFlagsRequiredTogether("days", "data-gb")

	return cmd
}

// itineraryFromFlags builds the inline itinerary. It returns nil when the
// trip comes from an itinerary file.
func itineraryFromFlags(cmd *cobra.Command, segments domain.Itinerary, days, dataGB float64) (domain.Itinerary, error) {
	if len(segments) > 0 {
		return segments, nil
	}
	if !cmd.Flags().Changed("days") {
		return nil, nil
	}
	if days <= 0 {
		return nil, fmt.Errorf("--days must be positive")
	}
	if dataGB < 0 {
		return nil, fmt.Errorf("--data-gb must not be negative")
	}
	return domain.SingleRegionItinerary(int(math.Ceil(days)), int64(math.Ceil(dataGB*importer.MBPerGB))), nil
}

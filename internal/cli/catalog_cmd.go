package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roamer/internal/cli/formatter"
)

func newCatalogCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the stored plan catalog",
	}

	cmd.AddCommand(
		newCatalogImportCmd(a),
		newCatalogListCmd(a),
		newCatalogShowCmd(a),
	)

	return cmd
}

func newCatalogImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored catalog with a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.Catalog.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Imported %d plan(s) from %d provider(s).\n",
				formatter.StyleGreen.Render("✔"), sum.Plans, sum.Providers)
			fmt.Fprintln(out, formatter.FormatCatalogSummary(sum))
			return nil
		},
	}
}

func newCatalogListCmd(a *App) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.Catalog.List(cmd.Context(), country)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "only plans covering this country code")
	return cmd
}

func newCatalogShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show what the stored catalog contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.Catalog.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalogSummary(sum))
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roamer/internal/cli/formatter"
)

func newPromoCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Manage per-provider promo recurrence",
	}

	cmd.AddCommand(
		newPromoImportCmd(a),
		newPromoSetCmd(a),
		newPromoListCmd(a),
	)

	return cmd
}

func newPromoImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a promo recurrence file into the stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.Promos.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Stored promo recurrence for %d provider(s).\n",
				formatter.StyleGreen.Render("✔"), n)
			return nil
		},
	}
}

func newPromoSetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> <one-time|unlimited|unknown>",
		Short: "Record whether a provider's promo price repeats",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Promos.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s promo set to %s.\n",
				formatter.StyleGreen.Render("✔"), args[0], args[1])
			return nil
		},
	}
}

func newPromoListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored promo recurrence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.Promos.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPromoList(entries))
			return nil
		},
	}
}

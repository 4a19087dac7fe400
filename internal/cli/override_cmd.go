package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roamer/internal/cli/formatter"
	"github.com/alexanderramin/roamer/internal/domain"
)

// resolveOverrideID accepts a full rule ID or an unambiguous prefix, as
// shown by "override list".
func resolveOverrideID(ctx context.Context, a *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("override ID is required")
	}

	rules, err := a.Overrides.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, r := range rules {
		if r.ID == input {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("override not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("override ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newOverrideCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Manage manual corrections to catalog and promo data",
	}

	cmd.AddCommand(
		newOverrideImportCmd(a),
		newOverrideAddCmd(a),
		newOverrideListCmd(a),
		newOverrideRemoveCmd(a),
	)

	return cmd
}

func newOverrideImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored overrides with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Overrides.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverrideImport(res))
			return nil
		},
	}
}

func newOverrideAddCmd(a *App) *cobra.Command {
	var (
		provider, planID, nameContains string
		promoType, note                string
		exclude, newUserOnly           bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one override rule",
		Example: `  roamer override add --provider holafly --promo-type one-time
  roamer override add --plan de-3gb --exclude --note "sold out"
  roamer override add --name-contains trial --new-user-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := domain.OverrideRule{
				Exclude:     exclude,
				NewUserOnly: newUserOnly,
				Note:        strings.TrimSpace(note),
			}
			switch {
			case provider != "":
				rule.Target, rule.Key = domain.TargetProvider, strings.TrimSpace(provider)
			case planID != "":
				rule.Target, rule.Key = domain.TargetPlan, strings.TrimSpace(planID)
			default:
				rule.Target, rule.Key = domain.TargetNameContains, strings.TrimSpace(nameContains)
			}
			if promoType != "" {
				r, err := domain.ParsePromoRecurrence(promoType)
				if err != nil {
					return fmt.Errorf("--promo-type: %w", err)
				}
				rule.ForceRecurrence = &r
			}

			added, err := a.Overrides.Add(cmd.Context(), rule)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added override %s for %s %q.\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(added.ID), added.Target, added.Key)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&provider, "provider", "", "match every plan of this provider ID")
	f.StringVar(&planID, "plan", "", "match one plan ID")
	f.StringVar(&nameContains, "name-contains", "", "match plans whose name contains this text")
	f.BoolVar(&exclude, "exclude", false, "drop matching plans from the catalog")
	f.BoolVar(&newUserOnly, "new-user-only", false, "mark matching plans as new-user only")
	f.StringVar(&promoType, "promo-type", "", "force the provider's promo recurrence (one-time or unlimited)")
	f.StringVar(&note, "note", "", "note shown as a warning on matching plans")

	cmd.MarkFlagsMutuallyExclusive("provider", "plan", "name-contains")
	cmd.MarkFlagsOneRequired("provider", "plan", "name-contains")

	return cmd
}

func newOverrideListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored overrides in the order they apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.Overrides.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverrideList(rules))
			return nil
		},
	}
}

func newOverrideRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an override by ID or ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveOverrideID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.Overrides.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed override %s.\n", formatter.TruncID(id))
			return nil
		},
	}
}

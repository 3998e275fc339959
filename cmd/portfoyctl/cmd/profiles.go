package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/ramazansancar/stock-cost-calculator/internal/app"
	"github.com/ramazansancar/stock-cost-calculator/internal/valuation"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newProfilesCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List, inspect and remove stored profiles",
	}
	cmd.AddCommand(
		newProfilesListCmd(rc),
		newProfilesUseCmd(rc),
		newProfilesRemoveCmd(rc),
	)
	return cmd
}

func newProfilesListCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				active := a.Profiles.ActiveID()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "\tID\tLABEL\tTRANSACTIONS\tUPDATED")
				for _, p := range a.Profiles.Profiles() {
					mark := ""
					if p.ID == active {
						mark = "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
						mark, p.ID, p.Label, len(p.Transactions), p.LastUpdated.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

// The active profile is not persisted, so use only lasts for this run. It
// prints what the profile holds; --profile selects it for other commands.
func newProfilesUseCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "use ID",
		Short: "Switch to a profile and print its totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				p, ok := a.Profiles.Profile(args[0])
				if !ok {
					return errors.Errorf("profile %q not found", args[0])
				}
				txs := a.Ledger.SwitchProfile(p.ID)
				t := valuation.Value(txs, a.Book).Totals

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "profile %s (%s): %d transactions\n", p.ID, p.Label, len(txs))
				fmt.Fprintf(out, "cost %s, value %s, P/L %s (%s)\n",
					a.Formatter.Money(t.TotalCost), a.Formatter.Money(t.MarketValue),
					a.Formatter.Money(t.ProfitLoss), a.Formatter.Percent(t.ProfitLossPercentage))
				return nil
			})
		},
	}
}

func newProfilesRemoveCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a stored profile (the owner profile is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				id := args[0]
				if id == a.Profiles.OwnerID() {
					fmt.Fprintln(cmd.OutOrStdout(), "owner profile cannot be removed")
					return nil
				}
				if err := a.Ledger.RemoveProfile(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
				return nil
			})
		},
	}
}

func newClearCmd(rc *RootConfig) *cobra.Command {
	var confirm string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction of the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				n := len(a.Ledger.Transactions())
				if err := a.Ledger.ClearAll(confirm); err != nil {
					return errors.Wrapf(err, "type --confirm %s", a.Ledger.ConfirmWord())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d transactions\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&confirm, "confirm", "", "the confirmation word")
	return cmd
}

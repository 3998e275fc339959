package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ramazansancar/stock-cost-calculator/internal/app"
	"github.com/ramazansancar/stock-cost-calculator/internal/report"
	"github.com/ramazansancar/stock-cost-calculator/internal/valuation"

	"github.com/spf13/cobra"
)

func value(ctx context.Context, a *app.App, refresh bool) valuation.Portfolio {
	if refresh {
		a.Refresh.Refresh(ctx)
	}
	return valuation.Value(a.Ledger.Transactions(), a.Book)
}

func newSummaryCmd(rc *RootConfig) *cobra.Command {
	var (
		refresh bool
		asJSON  bool
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print positions with average cost and profit/loss",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				p := value(cmd.Context(), a, refresh)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(p)
				}
				return writeSummary(cmd.OutOrStdout(), p, a.Formatter, all)
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch prices before valuing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&all, "all", false, "include closed positions")
	return cmd
}

func writeSummary(w io.Writer, p valuation.Portfolio, f report.Formatter, all bool) error {
	rows := p.Holdings
	if all {
		rows = p.Positions
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MarketValue > rows[j].MarketValue
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tQUANTITY\tAVG COST\tPRICE\tVALUE\tP/L\t%")
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Symbol, s.AssetType, f.Quantity(s.TotalQuantity),
			f.Money(s.AverageCost), f.Money(s.CurrentPrice), f.Money(s.MarketValue),
			f.Money(s.ProfitLoss), f.Percent(s.ProfitLossPercentage))
	}
	t := p.Totals
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\t\t%s\t%s\t%s\n",
		f.Money(t.TotalCost), f.Money(t.MarketValue), f.Money(t.ProfitLoss), f.Percent(t.ProfitLossPercentage))
	return tw.Flush()
}

func newReportCmd(rc *RootConfig) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the copyable text report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				ok, err := report.Write(cmd.OutOrStdout(), value(cmd.Context(), a, refresh), a.Formatter)
				if err == nil && !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no active holdings")
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch prices before valuing")
	return cmd
}

func newRefreshCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch prices for the active profile and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				res := a.Refresh.Refresh(cmd.Context())
				out := cmd.OutOrStdout()
				for _, feed := range res.Feeds {
					if msg, failed := res.Failures[feed]; failed {
						fmt.Fprintf(out, "%s: failed: %s\n", feed, msg)
						continue
					}
					fmt.Fprintf(out, "%s: ok\n", feed)
				}
				if len(res.Feeds) == 0 {
					fmt.Fprintln(out, "nothing to refresh")
				}
				return nil
			})
		},
	}
}

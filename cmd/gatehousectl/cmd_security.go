package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

var (
	wlAliases  []string
	wlReason   string
	wlSeverity string

	alertSeverity string
	alertOpenOnly bool
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Watchlist, screening and alerts",
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the screening watchlist",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watchlist entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		list, err := client.Security.ListWatchlist(ctx, nil)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSEVERITY\tACTIVE\tREASON")
		for _, e := range list.Entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", e.ID, e.FullName, e.Severity, e.Active, e.Reason)
		}
		return w.Flush()
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add [full-name]",
	Short: "Add a person to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		entry, err := client.Security.AddToWatchlist(ctx, &gatehouse.AddWatchlistEntryRequest{
			FullName: args[0],
			Aliases:  wlAliases,
			Reason:   wlReason,
			Severity: gatehouse.Severity(wlSeverity),
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(entry)
		}
		fmt.Printf("added watchlist entry %s (%s)\n", entry.ID, entry.Severity)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove [entry-id]",
	Short: "Remove a watchlist entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := client.Security.RemoveFromWatchlist(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("removed watchlist entry %s\n", args[0])
		return nil
	},
}

var screenCmd = &cobra.Command{
	Use:   "screen [full-name]",
	Short: "Screen a name against the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		result, err := client.Security.Screen(ctx, &gatehouse.ScreenRequest{FullName: args[0]})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(result)
		}
		if !result.Match {
			fmt.Printf("no match for %q\n", args[0])
			return nil
		}
		fmt.Printf("%q matches %d watchlist entr%s:\n", args[0], len(result.Entries),
			pluralY(len(result.Entries)))
		for _, e := range result.Entries {
			fmt.Printf("  %s  %s (%s) %s\n", e.ID, e.FullName, e.Severity, e.Reason)
		}
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List and acknowledge security alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		list, err := client.Security.ListAlerts(ctx, &gatehouse.AlertListOptions{
			Severity:       gatehouse.Severity(alertSeverity),
			Unacknowledged: alertOpenOnly,
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tACKED\tWHEN\tMESSAGE")
		for _, a := range list.Alerts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
				a.ID, a.Type, a.Severity, a.Acknowledged, formatTime(a.CreatedAt), a.Message)
		}
		return w.Flush()
	},
}

var alertsAckCmd = &cobra.Command{
	Use:   "ack [alert-id]",
	Short: "Acknowledge an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		alert, err := client.Security.AcknowledgeAlert(ctx, args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(alert)
		}
		fmt.Printf("acknowledged alert %s\n", alert.ID)
		return nil
	},
}

var securityStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the security summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		stats, err := client.Security.Stats(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(stats)
		}
		fmt.Printf("active alerts:     %d\n", stats.ActiveAlerts)
		fmt.Printf("watchlist entries: %d\n", stats.WatchlistEntries)
		fmt.Printf("denied today:      %d\n", stats.DeniedToday)
		fmt.Printf("screenings today:  %d\n", stats.ScreeningsToday)
		return nil
	},
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	watchlistAddCmd.Flags().StringSliceVar(&wlAliases, "alias", nil, "known alias, repeatable")
	watchlistAddCmd.Flags().StringVar(&wlReason, "reason", "", "reason for the entry")
	watchlistAddCmd.Flags().StringVar(&wlSeverity, "severity", string(gatehouse.SeverityMedium),
		"severity ("+strings.Join([]string{
			string(gatehouse.SeverityLow), string(gatehouse.SeverityMedium),
			string(gatehouse.SeverityHigh), string(gatehouse.SeverityCritical)}, "|")+")")

	alertsCmd.Flags().StringVar(&alertSeverity, "severity", "", "filter by severity")
	alertsCmd.Flags().BoolVar(&alertOpenOnly, "open", false, "only unacknowledged alerts")

	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd)
	alertsCmd.AddCommand(alertsAckCmd)
	securityCmd.AddCommand(watchlistCmd, screenCmd, alertsCmd, securityStatsCmd)
	rootCmd.AddCommand(securityCmd)
}

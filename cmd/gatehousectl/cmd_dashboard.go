package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gatehouse-hq/gatehouse-go/dashboard"
)

var (
	dashWatch    bool
	dashInterval time.Duration
	dashTenants  []string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the cross-tenant operations overview",
	Long: `Assembles the operations dashboard: per-tenant visit counters
fetched in parallel, the security summary and recent audit activity. With
--watch the overview refreshes on an interval until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if flagVerbose {
			if logger, err = zap.NewDevelopment(); err != nil {
				return err
			}
		}
		agg := dashboard.NewAggregator(client, dashboard.Config{}, logger)

		refresh := func(ctx context.Context) error {
			var ov *dashboard.Overview
			var err error
			if len(dashTenants) > 0 {
				ov, err = agg.OverviewFor(ctx, dashTenants)
			} else {
				ov, err = agg.Overview(ctx)
			}
			if err != nil {
				return err
			}
			renderOverview(ov)
			return nil
		}

		if !dashWatch {
			ctx, cancel := commandContext()
			defer cancel()
			return refresh(ctx)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		poller := dashboard.NewPoller(dashInterval, refresh, logger)
		fmt.Printf("refreshing every %s, ctrl-c to stop\n", poller.Interval())
		poller.Run(ctx)
		return nil
	},
}

func renderOverview(ov *dashboard.Overview) {
	fmt.Printf("\n=== overview at %s ===\n", ov.GeneratedAt.Format("15:04:05"))
	fmt.Printf("active %d | today %d | checked in %d | pre-registered %d | visitors %d\n",
		ov.Totals.ActiveVisits, ov.Totals.TodayVisits, ov.Totals.CheckedIn,
		ov.Totals.PreRegistered, ov.Totals.TotalVisitors)

	ids := make([]string, 0, len(ov.PerTenant))
	for id := range ov.PerTenant {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TENANT\tACTIVE\tTODAY\tCHECKED IN\tPRE-REG")
	for _, id := range ids {
		s := ov.PerTenant[id]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			id, s.ActiveVisits, s.TodayVisits, s.CheckedIn, s.PreRegistered)
	}
	_ = w.Flush()

	for id, err := range ov.Errors {
		fmt.Printf("tenant %s unavailable: %v\n", id, err)
	}

	if ov.Security != nil {
		suffix := ""
		if ov.SecurityDegraded {
			suffix = " (placeholder data)"
		}
		fmt.Printf("security%s: %d open alerts, %d watchlist entries, %d denied today\n",
			suffix, ov.Security.ActiveAlerts, ov.Security.WatchlistEntries, ov.Security.DeniedToday)
	}

	if len(ov.RecentAudit) > 0 {
		suffix := ""
		if ov.AuditDegraded {
			suffix = " (placeholder data)"
		}
		fmt.Printf("recent activity%s:\n", suffix)
		for _, l := range ov.RecentAudit {
			fmt.Printf("  %s  %s %s\n", formatTime(l.CreatedAt), l.Actor, l.Action)
		}
	}

	fmt.Printf("compliance: FICAM %.1f%% | FIPS 140 %.1f%% | HIPAA %.1f%% | FERPA %.1f%%\n",
		ov.Compliance.FICAM, ov.Compliance.FIPS140, ov.Compliance.HIPAA, ov.Compliance.FERPA)
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashWatch, "watch", "w", false, "keep refreshing until interrupted")
	dashboardCmd.Flags().DurationVar(&dashInterval, "interval", dashboard.DefaultInterval, "refresh interval with --watch")
	dashboardCmd.Flags().StringSliceVar(&dashTenants, "tenants", nil, "limit to specific tenant IDs")
	rootCmd.AddCommand(dashboardCmd)
}

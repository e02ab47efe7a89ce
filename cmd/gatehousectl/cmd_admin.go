package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

var (
	auditActor  string
	auditAction string
	auditFlag   string
	auditFrom   string
	auditTo     string
	auditLimit  int
	auditOut    string
)

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Inspect tenants",
}

var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		list, err := client.Tenants.List(ctx, nil)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG\tACTIVE")
		for _, t := range list.Tenants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", t.ID, t.Name, t.Slug, t.IsActive)
		}
		return w.Flush()
	},
}

var tenantsStatsCmd = &cobra.Command{
	Use:   "stats [tenant-id]",
	Short: "Show one tenant's visit counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		stats, err := client.Tenants.Stats(ctx, args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(stats)
		}
		fmt.Printf("active visits:  %d\n", stats.ActiveVisits)
		fmt.Printf("today's visits: %d\n", stats.TodayVisits)
		fmt.Printf("checked in:     %d\n", stats.CheckedIn)
		fmt.Printf("pre-registered: %d\n", stats.PreRegistered)
		fmt.Printf("total visitors: %d\n", stats.TotalVisitors)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the audit trail",
}

func auditOptions() (*gatehouse.AuditListOptions, error) {
	opts := &gatehouse.AuditListOptions{
		ListOptions: gatehouse.ListOptions{Limit: auditLimit},
		Actor:       auditActor,
		Action:      auditAction,
		Flag:        gatehouse.ComplianceFlag(auditFlag),
	}
	var err error
	if opts.From, err = parseTimeFlag(auditFrom); err != nil {
		return nil, err
	}
	if opts.To, err = parseTimeFlag(auditTo); err != nil {
		return nil, err
	}
	return opts, nil
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		opts, err := auditOptions()
		if err != nil {
			return err
		}
		list, err := client.Audit.List(ctx, opts)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tRESOURCE\tDETAIL")
		for _, l := range list.Logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%s\n",
				formatTime(l.CreatedAt), l.Actor, l.Action, l.Resource, l.ResourceID, l.Detail)
		}
		return w.Flush()
	},
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matching audit entries as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		opts, err := auditOptions()
		if err != nil {
			return err
		}
		export, err := client.Audit.Export(ctx, opts)
		if err != nil {
			return err
		}

		out := auditOut
		if out == "" {
			out = export.Filename
		}
		if out == "" {
			out = "audit.csv"
		}
		if err := os.WriteFile(out, export.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(export.Data))
		return nil
	},
}

func init() {
	auditPF := auditCmd.PersistentFlags()
	auditPF.StringVar(&auditActor, "actor", "", "filter by actor")
	auditPF.StringVar(&auditAction, "action", "", "filter by action, e.g. visit.check_in")
	auditPF.StringVar(&auditFlag, "flag", "", "filter by compliance flag (FICAM|FIPS_140|HIPAA|FERPA)")
	auditPF.StringVar(&auditFrom, "from", "", "entries on or after")
	auditPF.StringVar(&auditTo, "to", "", "entries on or before")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "page size")
	auditExportCmd.Flags().StringVarP(&auditOut, "out", "o", "", "output file (default from server)")

	tenantsCmd.AddCommand(tenantsListCmd, tenantsStatsCmd)
	auditCmd.AddCommand(auditListCmd, auditExportCmd)
	rootCmd.AddCommand(tenantsCmd, auditCmd)
}

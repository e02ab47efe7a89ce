package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

var (
	visitStatus   string
	visitFacility string
	visitVisitor  string
	visitFrom     string
	visitTo       string
	visitPage     int
	visitLimit    int

	regVisitor  string
	regHost     string
	regFacility string
	regPurpose  string
	regStart    string
	regEnd      string
	regEscort   bool
	regPattern  string
	regInterval int
	regDays     []int
	regUntil    string

	checkInBadge string
	cancelReason string
	calendarOut  string
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Schedule and run visits",
}

var visitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visits",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		opts := &gatehouse.VisitListOptions{
			ListOptions: gatehouse.ListOptions{Page: visitPage, Limit: visitLimit},
			Status:      gatehouse.VisitStatus(visitStatus),
			FacilityID:  visitFacility,
			VisitorID:   visitVisitor,
		}
		if opts.From, err = parseTimeFlag(visitFrom); err != nil {
			return err
		}
		if opts.To, err = parseTimeFlag(visitTo); err != nil {
			return err
		}

		list, err := client.Visits.List(ctx, opts)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tVISITOR\tSTATUS\tSTART\tPURPOSE")
		for _, v := range list.Visits {
			name := v.VisitorID
			if v.Visitor != nil {
				name = v.Visitor.FullName()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				v.ID, name, v.Status, formatTime(v.ScheduledStart), v.Purpose)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("page %d of %d (%d visits)\n", list.Page, list.Pages, list.Total)
		return nil
	},
}

var visitsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Pre-register a visit",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		start, err := parseTimeFlag(regStart)
		if err != nil {
			return err
		}
		if start.IsZero() {
			start = time.Now().Add(time.Hour).Truncate(time.Minute)
		}
		end, err := parseTimeFlag(regEnd)
		if err != nil {
			return err
		}
		if end.IsZero() {
			end = start.Add(time.Hour)
		}

		req := &gatehouse.CreateVisitRequest{
			VisitorID:      regVisitor,
			HostUserID:     regHost,
			FacilityID:     regFacility,
			Purpose:        regPurpose,
			ScheduledStart: start,
			ScheduledEnd:   end,
			EscortRequired: regEscort,
		}
		if regPattern != "" {
			req.Recurring = true
			req.RecurrencePattern = regPattern
			req.RecurrenceInterval = regInterval
			req.RecurrenceDays = regDays
			if regUntil != "" {
				until, err := parseTimeFlag(regUntil)
				if err != nil {
					return err
				}
				req.RecurrenceEnd = &until
			}
		}

		visit, err := client.Visits.Create(ctx, req)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(visit)
		}
		fmt.Printf("registered visit %s (%s)\n", visit.ID, formatTime(visit.ScheduledStart))
		if visit.QRToken != "" {
			fmt.Printf("check-in token: %s\n", visit.QRToken)
		}
		return nil
	},
}

var visitsCheckInCmd = &cobra.Command{
	Use:   "check-in [visit-id]",
	Short: "Check a visitor in and issue a badge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		visit, err := client.Visits.CheckIn(ctx, args[0], &gatehouse.CheckInRequest{
			BadgeType: gatehouse.BadgeType(checkInBadge),
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(visit)
		}
		fmt.Printf("checked in visit %s\n", visit.ID)
		if visit.Badge != nil {
			fmt.Printf("badge %s (%s)\n", visit.Badge.Number, visit.Badge.Type)
		}
		return nil
	},
}

var visitsCheckOutCmd = &cobra.Command{
	Use:   "check-out [visit-id]",
	Short: "Check a visitor out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		visit, err := client.Visits.CheckOut(ctx, args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(visit)
		}
		fmt.Printf("checked out visit %s at %s\n", visit.ID, formatTime(*visit.CheckOutTime))
		return nil
	},
}

var visitsCancelCmd = &cobra.Command{
	Use:   "cancel [visit-id]",
	Short: "Cancel a pre-registered visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		visit, err := client.Visits.Cancel(ctx, args[0], cancelReason)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(visit)
		}
		fmt.Printf("cancelled visit %s\n", visit.ID)
		return nil
	},
}

var visitsQRCmd = &cobra.Command{
	Use:   "qr [scanned-payload]",
	Short: "Self check-in from a scanned QR payload",
	Long: `Runs the kiosk flow for a scanned QR code: the check-in token is
extracted from the payload (a full URL or the bare token), resolved to its
visit, and the visit is checked in with a printed badge.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		visit, err := client.Visits.QRCheckIn(ctx, args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(visit)
		}
		name := visit.VisitorID
		if visit.Visitor != nil {
			name = visit.Visitor.FullName()
		}
		fmt.Printf("welcome %s, visit %s checked in\n", name, visit.ID)
		return nil
	},
}

var visitsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Export the visit schedule as an iCalendar file",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		opts := &gatehouse.CalendarExportOptions{FacilityID: visitFacility}
		if opts.From, err = parseTimeFlag(visitFrom); err != nil {
			return err
		}
		if opts.To, err = parseTimeFlag(visitTo); err != nil {
			return err
		}

		export, err := client.Visits.ExportCalendar(ctx, opts)
		if err != nil {
			return err
		}

		out := calendarOut
		if out == "" {
			out = export.Filename
		}
		if out == "" {
			out = "visits.ics"
		}
		if err := os.WriteFile(out, export.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(export.Data))
		return nil
	},
}

// parseTimeFlag accepts RFC 3339 or a plain date.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q, want RFC 3339 or YYYY-MM-DD", s)
}

func init() {
	visitsListCmd.Flags().StringVar(&visitStatus, "status", "", "filter by status ("+strings.Join([]string{
		string(gatehouse.VisitPreRegistered), string(gatehouse.VisitCheckedIn),
		string(gatehouse.VisitCheckedOut), string(gatehouse.VisitCancelled),
		string(gatehouse.VisitDenied)}, "|")+")")
	visitsListCmd.Flags().StringVar(&visitFacility, "facility", "", "filter by facility ID")
	visitsListCmd.Flags().StringVar(&visitVisitor, "visitor", "", "filter by visitor ID")
	visitsListCmd.Flags().StringVar(&visitFrom, "from", "", "scheduled on or after")
	visitsListCmd.Flags().StringVar(&visitTo, "to", "", "scheduled on or before")
	visitsListCmd.Flags().IntVar(&visitPage, "page", 1, "page number")
	visitsListCmd.Flags().IntVar(&visitLimit, "limit", 20, "page size")

	visitsRegisterCmd.Flags().StringVar(&regVisitor, "visitor", "", "visitor ID (required)")
	visitsRegisterCmd.Flags().StringVar(&regHost, "host", "", "host user ID")
	visitsRegisterCmd.Flags().StringVar(&regFacility, "facility", "", "facility ID (required)")
	visitsRegisterCmd.Flags().StringVar(&regPurpose, "purpose", "", "visit purpose")
	visitsRegisterCmd.Flags().StringVar(&regStart, "start", "", "scheduled start (default 1h from now)")
	visitsRegisterCmd.Flags().StringVar(&regEnd, "end", "", "scheduled end (default start+1h)")
	visitsRegisterCmd.Flags().BoolVar(&regEscort, "escort", false, "escort required")
	visitsRegisterCmd.Flags().StringVar(&regPattern, "recur", "", "recurrence pattern (daily|weekly|monthly)")
	visitsRegisterCmd.Flags().IntVar(&regInterval, "recur-interval", 1, "recurrence interval")
	visitsRegisterCmd.Flags().IntSliceVar(&regDays, "recur-days", nil, "weekly recurrence days, 0=Sunday")
	visitsRegisterCmd.Flags().StringVar(&regUntil, "recur-until", "", "recurrence end date")
	_ = visitsRegisterCmd.MarkFlagRequired("visitor")
	_ = visitsRegisterCmd.MarkFlagRequired("facility")

	visitsCheckInCmd.Flags().StringVar(&checkInBadge, "badge", "", "badge type (printed|civ_piv_i)")
	visitsCancelCmd.Flags().StringVar(&cancelReason, "reason", "", "cancellation reason")

	visitsCalendarCmd.Flags().StringVar(&visitFacility, "facility", "", "filter by facility ID")
	visitsCalendarCmd.Flags().StringVar(&visitFrom, "from", "", "window start")
	visitsCalendarCmd.Flags().StringVar(&visitTo, "to", "", "window end")
	visitsCalendarCmd.Flags().StringVarP(&calendarOut, "out", "o", "", "output file (default from server)")

	visitsCmd.AddCommand(visitsListCmd, visitsRegisterCmd, visitsCheckInCmd,
		visitsCheckOutCmd, visitsCancelCmd, visitsQRCmd, visitsCalendarCmd)
	rootCmd.AddCommand(visitsCmd)
}

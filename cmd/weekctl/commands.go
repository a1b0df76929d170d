package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/spf13/cobra"
)

var version = "dev"

type weekView struct {
	Label      string `json:"label"`
	Key        string `json:"key"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CrossMonth bool   `json:"cross_month"`
}

type cliOptions struct {
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "weekctl",
		Short: "Fiscal week calendar queries",
		Long: `weekctl answers fiscal week questions without a server or database.

Weeks run Saturday to Friday. Week 1 of a month is the week containing the 1st.

Examples:
  # Which week contains a date
  weekctl of 2025-03-29

  # Date range of a week
  weekctl range 2025 8 1

  # Weeks belonging to a month under the majority rule
  weekctl weeks 2025 7 --rule majority`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newOfCmd(opts),
		newRangeCmd(opts),
		newWeeksCmd(opts),
		newBetweenCmd(opts),
	)
	return root
}

func newOfCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "of <date>",
		Short: "Show the week containing a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			return printWeeks(cmd.OutOrStdout(), opts, []fiscalweek.Week{fiscalweek.WeekOf(date)})
		},
	}
}

func newRangeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "range <year> <month> <week>",
		Short: "Show the date range of a week in month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args, "year", "month", "week")
			if err != nil {
				return err
			}
			week, err := fiscalweek.ResolveWeek(nums[0], time.Month(nums[1]), nums[2])
			if err != nil {
				return err
			}
			return printWeeks(cmd.OutOrStdout(), opts, []fiscalweek.Week{week})
		},
	}
}

func newWeeksCmd(opts *cliOptions) *cobra.Command {
	var rawRule string
	cmd := &cobra.Command{
		Use:   "weeks <year> <month>",
		Short: "List the weeks belonging to a month",
		Long: `List the weeks belonging to a month.

The anchor rule drops weeks that start in another month or are centred in another month.
The majority rule assigns every week to the month holding four or more of its days.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args, "year", "month")
			if err != nil {
				return err
			}
			rule, err := fiscalweek.ParseMonthRule(rawRule)
			if err != nil {
				return err
			}
			weeks, err := fiscalweek.WeeksInMonth(nums[0], time.Month(nums[1]), rule)
			if err != nil {
				return err
			}
			return printWeeks(cmd.OutOrStdout(), opts, weeks)
		},
	}
	cmd.Flags().StringVar(&rawRule, "rule", string(fiscalweek.MonthRuleAnchor), "month rule: anchor or majority")
	return cmd
}

func newBetweenCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "between <from> <to>",
		Short: "List the weeks from the week of <from> to the week of <to>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			to, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			weeks, err := fiscalweek.WeeksBetween(from, to)
			if err != nil {
				return err
			}
			return printWeeks(cmd.OutOrStdout(), opts, weeks)
		},
	}
}

func parseDateArg(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func parseInts(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, raw := range args {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", names[i], raw)
		}
		out[i] = n
	}
	return out, nil
}

func printWeeks(w io.Writer, opts *cliOptions, weeks []fiscalweek.Week) error {
	views := make([]weekView, 0, len(weeks))
	for _, wk := range weeks {
		views = append(views, weekView{
			Label:      wk.Label(),
			Key:        wk.Key(),
			StartDate:  wk.StartDate.Format(time.DateOnly),
			EndDate:    wk.EndDate.Format(time.DateOnly),
			CrossMonth: fiscalweek.IsCrossMonthWeek(wk.Year, wk.Month, wk.WeekInMonth),
		})
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tSTART\tEND\tCROSS-MONTH")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", v.Label, v.StartDate, v.EndDate, v.CrossMonth)
	}
	return tw.Flush()
}

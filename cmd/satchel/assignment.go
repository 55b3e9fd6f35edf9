package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/validate"
)

func newAssignmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"a"},
		Short:   "Assignment management commands",
	}

	cmd.AddCommand(newAssignmentCreateCmd())
	cmd.AddCommand(newAssignmentListCmd())
	cmd.AddCommand(newAssignmentShowCmd())
	cmd.AddCommand(newAssignmentUpdateCmd())
	cmd.AddCommand(newAssignmentStatusCmd())
	cmd.AddCommand(newAssignmentDeleteCmd())
	cmd.AddCommand(newAssignmentUpcomingCmd())
	cmd.AddCommand(newAssignmentOverdueCmd())
	cmd.AddCommand(newAssignmentSearchCmd())
	cmd.AddCommand(newAssignmentStatsCmd())
	return cmd
}

type assignmentFlags struct {
	title       string
	description string
	subject     string
	due         string
	priority    string
	status      string
	hours       float64
	actual      float64
	tags        []string
}

func newAssignmentCreateCmd() *cobra.Command {
	var (
		configPath string
		f          assignmentFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new assignment",
		Long:  "Creates an assignment with status not-started. Due dates accept YYYY-MM-DD or an ISO 8601 timestamp.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentCreate(cmd, configPath, f)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&f.title, "title", "", "assignment title (required)")
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject or course (required)")
	cmd.Flags().StringVar(&f.due, "due", "", "due date, e.g. 2026-03-20 or 2026-03-20T17:00 (required)")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "estimated hours (required)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "priority (low, medium, high; default medium)")
	cmd.Flags().StringVar(&f.description, "description", "", "longer description")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "comma-separated tags")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runAssignmentCreate(cmd *cobra.Command, configPath string, f assignmentFlags) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	in := models.AssignmentInput{
		Title:          f.title,
		Description:    f.description,
		Subject:        f.subject,
		Priority:       models.Priority(f.priority),
		EstimatedHours: f.hours,
		Tags:           f.tags,
	}
	if f.due != "" {
		due, err := validate.ParseDate(f.due)
		if err != nil {
			return err
		}
		in.DueDate = due
	}

	created, err := a.assignments.Create(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created assignment %s\n", created.ID)
	return nil
}

func newAssignmentListCmd() *cobra.Command {
	var (
		configPath string
		opts       assignment.ListOptions
		status     string
		priority   string
		dueFrom    string
		dueTo      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		Long:  "Lists assignments with optional filters, sorting and paging. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Status = models.Status(status)
			opts.Priority = models.Priority(priority)
			var err error
			if opts.DueFrom, err = parseOptionalDate(dueFrom); err != nil {
				return err
			}
			if opts.DueTo, err = parseOptionalDate(dueTo); err != nil {
				return err
			}
			return runAssignmentList(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "filter by subject (substring)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "filter by any of these tags")
	cmd.Flags().StringVar(&dueFrom, "due-from", "", "only assignments due on or after this date")
	cmd.Flags().StringVar(&dueTo, "due-to", "", "only assignments due on or before this date")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "free-text filter")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "sort field ("+strings.Join(assignment.SortFields, ", ")+")")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order (asc, desc)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "results per page (max 100)")
	return cmd
}

func runAssignmentList(cmd *cobra.Command, configPath string, opts assignment.ListOptions) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	page, err := a.assignments.List(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Data) == 0 {
		fmt.Fprintln(out, "No assignments found.")
		return nil
	}
	printAssignments(out, page.Data)
	p := page.Pagination
	fmt.Fprintf(out, "\nPage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func printAssignments(out io.Writer, as []models.Assignment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tDUE\tPRIORITY\tSTATUS\tHOURS")
	for _, a := range as {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, truncate(a.Title, 40), truncate(a.Subject, 20), formatTime(a.DueDate),
			a.Priority, a.Status, formatHours(a.EstimatedHours))
	}
	w.Flush()
}

func newAssignmentShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show assignment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runAssignmentShow(cmd *cobra.Command, configPath, id string) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	found, err := a.assignments.GetByID(id)
	if err != nil {
		return err
	}
	if found == nil {
		return fmt.Errorf("assignment %s not found", id)
	}
	printAssignment(cmd.OutOrStdout(), found)
	return nil
}

func printAssignment(out io.Writer, a *models.Assignment) {
	fmt.Fprintf(out, "ID:          %s\n", a.ID)
	fmt.Fprintf(out, "Title:       %s\n", a.Title)
	fmt.Fprintf(out, "Subject:     %s\n", a.Subject)
	fmt.Fprintf(out, "Status:      %s\n", a.Status)
	fmt.Fprintf(out, "Priority:    %s\n", a.Priority)
	fmt.Fprintf(out, "Due:         %s\n", formatTime(a.DueDate))
	fmt.Fprintf(out, "Estimated:   %sh\n", formatHours(a.EstimatedHours))
	if a.ActualHours != nil {
		fmt.Fprintf(out, "Actual:      %sh\n", formatHours(*a.ActualHours))
	}
	fmt.Fprintf(out, "Tags:        %s\n", formatTags(a.Tags))
	fmt.Fprintf(out, "Created:     %s\n", formatTime(a.CreatedAt))
	fmt.Fprintf(out, "Updated:     %s\n", formatTime(a.UpdatedAt))
	if a.Description != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", a.Description)
	}
}

func newAssignmentUpdateCmd() *cobra.Command {
	var (
		configPath string
		f          assignmentFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update assignment fields",
		Long:  "Updates only the fields whose flags are given. A --status change must follow the status transition rules.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := assignmentPatchFromFlags(cmd, f)
			if err != nil {
				return err
			}
			return runAssignmentUpdate(cmd, configPath, args[0], patch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&f.title, "title", "", "new title")
	cmd.Flags().StringVar(&f.subject, "subject", "", "new subject")
	cmd.Flags().StringVar(&f.description, "description", "", "new description")
	cmd.Flags().StringVar(&f.due, "due", "", "new due date")
	cmd.Flags().StringVar(&f.priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&f.status, "status", "", "new status")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "new estimated hours")
	cmd.Flags().Float64Var(&f.actual, "actual", 0, "actual hours spent")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "replace tags")
	return cmd
}

// assignmentPatchFromFlags builds a patch from the flags the user set.
func assignmentPatchFromFlags(cmd *cobra.Command, f assignmentFlags) (models.AssignmentPatch, error) {
	var p models.AssignmentPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &f.title
	}
	if flags.Changed("subject") {
		p.Subject = &f.subject
	}
	if flags.Changed("description") {
		p.Description = &f.description
	}
	if flags.Changed("due") {
		due, err := validate.ParseDate(f.due)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if flags.Changed("priority") {
		prio := models.Priority(f.priority)
		p.Priority = &prio
	}
	if flags.Changed("status") {
		status := models.Status(f.status)
		p.Status = &status
	}
	if flags.Changed("hours") {
		p.EstimatedHours = &f.hours
	}
	if flags.Changed("actual") {
		p.ActualHours = &f.actual
	}
	if flags.Changed("tags") {
		p.Tags = &f.tags
	}
	if p.IsEmpty() {
		return p, fmt.Errorf("no fields to update")
	}
	return p, nil
}

func runAssignmentUpdate(cmd *cobra.Command, configPath, id string, patch models.AssignmentPatch) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	updated, err := a.assignments.UpdateByID(id, patch)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("assignment %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated assignment %s\n", updated.ID)
	return nil
}

func newAssignmentStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an assignment's status",
		Long:  "Moves an assignment to not-started, in-progress or completed. Overdue is derived from the due date and cannot be set.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentStatus(cmd, configPath, args[0], models.Status(args[1]))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runAssignmentStatus(cmd *cobra.Command, configPath, id string, status models.Status) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	updated, err := a.assignments.UpdateStatus(id, status)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("assignment %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Assignment %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func newAssignmentDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an assignment",
		Long:  "Deletes an assignment. Notes linked to it are left in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentDelete(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runAssignmentDelete(cmd *cobra.Command, configPath, id string) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ok, err := a.assignments.DeleteByID(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("assignment %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted assignment %s\n", id)
	return nil
}

// newAssignmentQueryCmd builds a no-argument listing command around query.
func newAssignmentQueryCmd(use, short, empty string, query func(*assignment.Service) ([]models.Assignment, error)) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			as, err := query(a.assignments)
			if err != nil {
				return err
			}
			if len(as) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), empty)
				return nil
			}
			printAssignments(cmd.OutOrStdout(), as)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func newAssignmentUpcomingCmd() *cobra.Command {
	return newAssignmentQueryCmd("upcoming", "List unfinished assignments due within 7 days, overdue included",
		"Nothing due in the next 7 days.", (*assignment.Service).GetUpcoming)
}

func newAssignmentOverdueCmd() *cobra.Command {
	return newAssignmentQueryCmd("overdue", "List overdue assignments",
		"No overdue assignments.", (*assignment.Service).GetOverdue)
}

func newAssignmentSearchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search assignment titles, descriptions, subjects and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			as, err := a.assignments.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(as) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assignments found.")
				return nil
			}
			printAssignments(cmd.OutOrStdout(), as)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func newAssignmentStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show assignment statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st, err := a.assignments.GetStats()
			if err != nil {
				return err
			}
			printAssignmentStats(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func printAssignmentStats(out io.Writer, st *assignment.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total:\t%d\n", st.Total)
	fmt.Fprintf(w, "Not started:\t%d\n", st.NotStarted)
	fmt.Fprintf(w, "In progress:\t%d\n", st.InProgress)
	fmt.Fprintf(w, "Completed:\t%d\n", st.Completed)
	fmt.Fprintf(w, "Overdue:\t%d\n", st.Overdue)
	fmt.Fprintf(w, "Estimated hours:\t%s\n", formatHours(st.TotalEstimatedHours))
	fmt.Fprintf(w, "Actual hours:\t%s\n", formatHours(st.TotalActualHours))
	w.Flush()
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/note"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"n"},
		Short:   "Note management commands",
	}

	cmd.AddCommand(newNoteCreateCmd())
	cmd.AddCommand(newNoteListCmd())
	cmd.AddCommand(newNoteShowCmd())
	cmd.AddCommand(newNoteUpdateCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	cmd.AddCommand(newNoteSearchCmd())
	cmd.AddCommand(newNoteStatsCmd())
	return cmd
}

type noteFlags struct {
	title        string
	content      string
	subject      string
	assignmentID string
	tags         []string
}

func newNoteCreateCmd() *cobra.Command {
	var (
		configPath string
		f          noteFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNoteCreate(cmd, configPath, models.NoteInput{
				Title:        f.title,
				Content:      f.content,
				Subject:      f.subject,
				Tags:         f.tags,
				AssignmentID: f.assignmentID,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&f.title, "title", "", "note title (required)")
	cmd.Flags().StringVar(&f.content, "content", "", "note body (required)")
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject or course (required)")
	cmd.Flags().StringVar(&f.assignmentID, "assignment", "", "link the note to this assignment ID")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "comma-separated tags")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runNoteCreate(cmd *cobra.Command, configPath string, in models.NoteInput) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	n, err := a.notes.Create(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", n.ID)
	return nil
}

func newNoteListCmd() *cobra.Command {
	var (
		configPath string
		opts       note.ListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNoteList(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "filter by subject (substring)")
	cmd.Flags().StringVar(&opts.AssignmentID, "assignment", "", "filter by linked assignment ID")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "free-text filter")
	return cmd
}

func runNoteList(cmd *cobra.Command, configPath string, opts note.ListOptions) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	notes, err := a.notes.List(opts)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
		return nil
	}
	printNotes(cmd.OutOrStdout(), notes)
	return nil
}

func printNotes(out io.Writer, notes []models.Note) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tASSIGNMENT\tUPDATED")
	for _, n := range notes {
		link := "-"
		if n.AssignmentID != nil {
			link = *n.AssignmentID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.ID, truncate(n.Title, 40), truncate(n.Subject, 20), link, formatTime(n.UpdatedAt))
	}
	w.Flush()
}

func newNoteShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNoteShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runNoteShow(cmd *cobra.Command, configPath, id string) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	n, err := a.notes.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("note %s not found", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", n.ID)
	fmt.Fprintf(out, "Title:       %s\n", n.Title)
	fmt.Fprintf(out, "Subject:     %s\n", n.Subject)
	fmt.Fprintf(out, "Tags:        %s\n", formatTags(n.Tags))
	if n.AssignmentID != nil {
		fmt.Fprintf(out, "Assignment:  %s\n", *n.AssignmentID)
	}
	fmt.Fprintf(out, "Updated:     %s\n", formatTime(n.UpdatedAt))
	fmt.Fprintf(out, "\n%s\n", n.Content)
	return nil
}

func newNoteUpdateCmd() *cobra.Command {
	var (
		configPath string
		f          noteFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update note fields",
		Long:  "Updates only the fields whose flags are given. --assignment \"\" unlinks the note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := notePatchFromFlags(cmd, f)
			if err != nil {
				return err
			}
			return runNoteUpdate(cmd, configPath, args[0], patch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVar(&f.title, "title", "", "new title")
	cmd.Flags().StringVar(&f.content, "content", "", "new body")
	cmd.Flags().StringVar(&f.subject, "subject", "", "new subject")
	cmd.Flags().StringVar(&f.assignmentID, "assignment", "", "new linked assignment ID")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "replace tags")
	return cmd
}

func notePatchFromFlags(cmd *cobra.Command, f noteFlags) (models.NotePatch, error) {
	var p models.NotePatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &f.title
	}
	if flags.Changed("content") {
		p.Content = &f.content
	}
	if flags.Changed("subject") {
		p.Subject = &f.subject
	}
	if flags.Changed("assignment") {
		p.AssignmentID = &f.assignmentID
	}
	if flags.Changed("tags") {
		p.Tags = &f.tags
	}
	if p.IsEmpty() {
		return p, fmt.Errorf("no fields to update")
	}
	return p, nil
}

func runNoteUpdate(cmd *cobra.Command, configPath, id string, patch models.NotePatch) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	n, err := a.notes.UpdateByID(id, patch)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("note %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", n.ID)
	return nil
}

func newNoteDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ok, err := a.notes.DeleteByID(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func newNoteSearchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search note titles, content, subjects and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			notes, err := a.notes.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}
			printNotes(cmd.OutOrStdout(), notes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func newNoteStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show note statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printNoteStats(cmd.OutOrStdout(), a.notes.GetStats())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func printNoteStats(out io.Writer, st note.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total:\t%d\n", st.Total)
	fmt.Fprintf(w, "Tags:\t%d (%d unique)\n", st.TotalTags, st.UniqueTags)
	fmt.Fprintf(w, "Average length:\t%d chars\n", st.AverageContentLength)
	for _, subject := range sortedKeys(st.BySubject) {
		fmt.Fprintf(w, "  %s:\t%d\n", subject, st.BySubject[subject])
	}
	w.Flush()
}

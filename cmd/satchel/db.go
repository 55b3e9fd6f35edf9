package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/overview"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Data file management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBBackupCmd())
	cmd.AddCommand(newDBClearCmd())
	cmd.AddCommand(newDBStatsCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and empty data files",
		Long:  "Creates the data directory and any missing assignments.json and notes.json as empty arrays. Existing files are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	created, err := a.dir.Init()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, path := range created {
		fmt.Fprintf(out, "Created %s\n", path)
	}
	fmt.Fprintf(out, "Data directory %s ready\n", a.dir.Root)
	return nil
}

func newDBBackupCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the data files into the backups directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			written, err := a.dir.Backup(time.Now())
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func newDBClearCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
		backup     bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every assignment and note",
		Long:  "Empties both data files. Requires --yes. With --backup, copies the files into the backups directory first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBClear(cmd, configPath, yes, backup)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all data")
	cmd.Flags().BoolVar(&backup, "backup", true, "back up the data files before clearing")
	return cmd
}

func runDBClear(cmd *cobra.Command, configPath string, yes, backup bool) error {
	if !yes {
		return fmt.Errorf("refusing to clear all data without --yes")
	}
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if backup {
		written, err := a.dir.Backup(time.Now())
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(out, "Backed up to %s\n", path)
		}
	}
	if err := a.dir.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(out, "All assignments and notes deleted.")
	return nil
}

func newDBStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStats(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	return cmd
}

func runDBStats(cmd *cobra.Command, configPath string) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ov, err := overview.Build(a.assignments, a.notes, a.dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Data directory:\t%s\n", a.dir.Root)
	fmt.Fprintf(w, "Assignment records:\t%d\n", ov.Records.Assignments)
	fmt.Fprintf(w, "Note records:\t%d\n", ov.Records.Notes)
	w.Flush()

	fmt.Fprintln(out, "\nAssignments")
	printAssignmentStats(out, &ov.Assignments)
	fmt.Fprintln(out, "\nNotes")
	printNoteStats(out, ov.Notes)
	return nil
}

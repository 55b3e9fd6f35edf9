package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to CSV, JSON or Markdown",
	}

	cmd.AddCommand(newExportAssignmentsCmd())
	cmd.AddCommand(newExportNotesCmd())
	return cmd
}

func newExportAssignmentsCmd() *cobra.Command {
	var configPath, format, output string

	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Export every assignment",
		Long:  "Writes all assignments as CSV or JSON. Without --output a timestamped file is created in the current directory; --output - writes to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportAssignments(cmd, configPath, format, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	return cmd
}

func runExportAssignments(cmd *cobra.Command, configPath, format, output string) error {
	var write func(io.Writer) error
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	all, err := a.assignments.GetAll()
	if err != nil {
		return err
	}

	now := time.Now()
	switch format {
	case "csv":
		write = func(w io.Writer) error { return export.AssignmentsCSV(w, all) }
	case "json":
		write = func(w io.Writer) error { return export.AssignmentsJSON(w, all, now) }
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
	return writeExport(cmd, output, export.Filename("assignments", format, now), len(all), write)
}

func newExportNotesCmd() *cobra.Command {
	var configPath, format, output string

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Export every note",
		Long:  "Writes all notes as JSON or Markdown. Without --output a timestamped file is created in the current directory; --output - writes to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportNotes(cmd, configPath, format, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format (json, md)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	return cmd
}

func runExportNotes(cmd *cobra.Command, configPath, format, output string) error {
	var write func(io.Writer) error
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	notes := a.notes.GetAll()

	now := time.Now()
	switch format {
	case "json":
		write = func(w io.Writer) error { return export.NotesJSON(w, notes, now) }
	case "md":
		write = func(w io.Writer) error { return export.NotesMarkdown(w, notes, now) }
	default:
		return fmt.Errorf("unknown format %q (want json or md)", format)
	}
	return writeExport(cmd, output, export.Filename("notes", format, now), len(notes), write)
}

// writeExport sends the export to stdout when output is "-", otherwise to
// output or the default file name.
func writeExport(cmd *cobra.Command, output, defaultName string, n int, write func(io.Writer) error) error {
	if output == "-" {
		return write(cmd.OutOrStdout())
	}
	if output == "" {
		output = defaultName
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, output)
	return nil
}

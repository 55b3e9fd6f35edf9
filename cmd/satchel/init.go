package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/config"
	"github.com/zulandar/satchel/internal/store"
)

func newInitCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file and create the data directory",
		Long:  "Writes satchel.yaml with default settings (never overwriting an existing file) and creates the data directory with empty data files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, configPath, dataDir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path of the config file to write")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (default ./data)")
	return cmd
}

func runInit(cmd *cobra.Command, configPath, dataDir string) error {
	cfg := config.Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := config.Write(configPath, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", configPath)

	dir := store.DataDir{Root: cfg.DataDir}
	created, err := dir.Init()
	if err != nil {
		return err
	}
	for _, path := range created {
		fmt.Fprintf(out, "Created %s\n", path)
	}
	fmt.Fprintln(out, "\nSatchel initialized. Start the API with: satchel serve")
	return nil
}

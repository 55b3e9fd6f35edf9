package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/satchel/internal/api"
	"github.com/zulandar/satchel/internal/logging"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Serves the Satchel REST API under /api. When digest.enabled is set, the reminder digest runs on its cron schedule alongside the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Satchel config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	a, err := openApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if _, err := a.dir.Init(); err != nil {
		return err
	}
	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if a.cfg.Digest.Enabled {
		sched, err := newScheduler(a)
		if err != nil {
			return err
		}
		go func() {
			if err := sched.Run(ctx); err != nil {
				logging.Logger.WithError(err).Error("digest: scheduler exited")
			}
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "Digest scheduled (%s) to %s\n", a.cfg.Digest.Cron, a.cfg.Digest.Platform)
	}

	return api.Start(ctx, api.StartOpts{
		Assignments:    a.assignments,
		Notes:          a.notes,
		DataDir:        a.dir,
		Port:           port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		RequestTimeout: a.cfg.Server.RequestTimeout,
		MaxBodyBytes:   a.cfg.Server.MaxBodyBytes,
		Version:        Version,
		Out:            cmd.OutOrStdout(),
	})
}

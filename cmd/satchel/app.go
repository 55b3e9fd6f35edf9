package main

import (
	"fmt"
	"io"

	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/config"
	"github.com/zulandar/satchel/internal/logging"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/store"
)

// app bundles the services a command needs.
type app struct {
	cfg         *config.Config
	dir         store.DataDir
	assignments *assignment.Service
	notes       *note.Service
}

// openApp loads the config, configures logging to logOut (unless the config
// names a log file) and wires the services onto the data directory.
func openApp(configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logging.Init(logging.Opts{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Out:        logOut,
	}); err != nil {
		return nil, err
	}

	dir := store.DataDir{Root: cfg.DataDir}
	as, err := assignment.NewService(assignment.ServiceOpts{
		Store: store.New[models.Assignment](dir.AssignmentsPath()),
	})
	if err != nil {
		return nil, err
	}
	ns, err := note.NewService(note.ServiceOpts{
		Store: store.New[models.Note](dir.NotesPath()),
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, dir: dir, assignments: as, notes: ns}, nil
}

package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/lox/weatherboard/internal/store"
)

type ExportCmd struct {
	DB string `name:"db" default:"data/weatherboard.db" type:"path" help:"SQLite database to write."`
}

func (c *ExportCmd) Run(g *Globals, log *zap.SugaredLogger) error {
	ctx, cancel := signalContext()
	defer cancel()

	ds, table, err := loadTable(ctx, g, log)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db, log)
	if err := st.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	info := store.ExportInfo{Resource: g.Data, Fingerprint: ds.Fingerprint}
	if err := st.Export(ctx, info, ds.Observations, table); err != nil {
		return err
	}
	log.Infof("export: wrote %s", c.DB)
	return nil
}

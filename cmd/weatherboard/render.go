package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/charts"
)

type RenderCmd struct {
	Out string `default:"out" type:"path" help:"Directory to write PNG files into."`
}

func (c *RenderCmd) Run(g *Globals, log *zap.SugaredLogger) error {
	ctx, cancel := signalContext()
	defer cancel()

	ds, table, err := loadTable(ctx, g, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, chart := range charts.Dashboard(ds, table) {
		data, err := chart.Render()
		if err != nil {
			return fmt.Errorf("render %s: %w", chart.Name, err)
		}
		path := filepath.Join(c.Out, chart.Name+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Infof("render: wrote %s", path)
	}
	return nil
}

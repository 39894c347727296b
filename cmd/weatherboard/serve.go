package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/api"
	"github.com/lox/weatherboard/internal/loader"
)

type ServeCmd struct {
	Port     string        `default:"8080" help:"HTTP server port."`
	ChartTTL time.Duration `name:"chart-ttl" default:"5m" help:"How long rendered charts are reused while the data is unchanged."`
	Location string        `default:"UTC" help:"Time zone for page timestamps."`
}

func (c *ServeCmd) Run(g *Globals, log *zap.SugaredLogger) error {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		log.Warnf("serve: could not load %s timezone, using UTC: %v", c.Location, err)
		loc = time.UTC
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Check the resource once up front. Requests load it again each time.
	ds, err := loader.New(log).Load(ctx, g.Data)
	if err != nil {
		return err
	}
	log.Infof("serve: %s has %d observations", g.Data, ds.Len())

	server := api.NewServer(loader.New(log), api.Config{
		Resource: g.Data,
		Port:     c.Port,
		Location: loc,
		ChartTTL: c.ChartTTL,
	}, log)
	return server.Run(ctx)
}

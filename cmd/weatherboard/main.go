package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/season"
)

// Globals are the flags shared by every command.
type Globals struct {
	Data     string                   `default:"data/weather.csv" help:"CSV of daily observations: a path, file://, http(s):// or ftp:// URL."`
	LogLevel string                   `default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})."`
	EnvFile  kongdotenv.ENVFileConfig `name:"env-file" default:".env" optional:"" help:"Load flag defaults from this .env file."`
}

type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the dashboard over HTTP."`
	Summary SummaryCmd `cmd:"" help:"Print the weather type by season table."`
	Render  RenderCmd  `cmd:"" help:"Write every dashboard chart to PNG files."`
	Export  ExportCmd  `cmd:"" help:"Write observations and seasonal counts to SQLite."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weatherboard"),
		kong.Description("Seasonal weather dashboard over a CSV of daily observations."),
		kong.UsageOnError(),
		kong.DefaultEnvars("WEATHERBOARD"),
	)

	log, err := newLogger(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "weatherboard: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := ctx.Run(&cli.Globals, log); err != nil {
		log.Fatalf("%s: %v", ctx.Command(), err)
	}
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// loadTable runs one load and aggregation of the configured resource.
func loadTable(ctx context.Context, g *Globals, log *zap.SugaredLogger) (*loader.Dataset, *season.Table, error) {
	ds, err := loader.New(log).Load(ctx, g.Data)
	if err != nil {
		return nil, nil, err
	}
	return ds, season.Aggregate(ds.Observations), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

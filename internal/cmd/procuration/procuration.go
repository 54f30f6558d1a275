// Package procuration parses procuration service flags and launches the service.
package procuration

import (
	"context"
	"flag"

	entrypoint "github.com/collectif-citoyen/plateforme/internal/platform/cmd"
	server "github.com/collectif-citoyen/plateforme/internal/services/procuration/app"
)

// Config holds procuration command configuration.
type Config struct {
	Port int `env:"COLLECTIF_PROCURATION_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The procuration HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the procuration HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProcuration, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}

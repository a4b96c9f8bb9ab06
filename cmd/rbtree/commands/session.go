// Package commands implements the rbtree CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/observability"
	"github.com/Sumatoshi-tech/rbtree/pkg/version"
	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

// session bundles the configuration and telemetry shared by one command invocation.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.TreeMetrics
}

// openSession loads configuration, lets apply override it, and starts telemetry.
// Logs go to logOut.
func openSession(configPath string, logOut io.Writer, apply func(*config.Config)) (*session, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if apply != nil {
		apply(cfg)

		err = cfg.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = cfg.Telemetry.ServiceName
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	providers.Logger = observability.NewLogger(logOut, obsCfg)

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{cfg: cfg, providers: providers, metrics: metrics}, nil
}

func (s *session) deps() workload.Deps {
	return workload.Deps{
		Logger:  s.providers.Logger,
		Tracer:  s.providers.Tracer,
		Metrics: s.metrics,
	}
}

// close writes the metrics file when one is configured and flushes telemetry.
func (s *session) close(ctx context.Context) error {
	var writeErr error

	if path := s.cfg.Telemetry.MetricsFile; path != "" {
		writeErr = observability.WriteMetricsFile(path, s.providers.Registry)
		if writeErr == nil {
			s.providers.Logger.InfoContext(ctx, "metrics written", "path", path)
		}
	}

	return errors.Join(writeErr, s.providers.Shutdown(ctx))
}

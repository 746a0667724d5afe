package main

import (
	"fmt"

	"github.com/kbukum/livescore/bootstrap"
	"github.com/kbukum/livescore/component"
	"github.com/kbukum/livescore/logger"
	"github.com/kbukum/livescore/observability"
	"github.com/kbukum/livescore/score"
	"github.com/kbukum/livescore/server"
	"github.com/kbukum/livescore/sse"
	"github.com/kbukum/livescore/version"
)

const serviceName = "livescore"

// service holds the wired parts of a livescore application.
type service struct {
	App      *bootstrap.App[*AppConfig]
	Server   *server.Server
	Hub      *sse.Hub[score.Snapshot]
	Producer *score.Producer
}

// newService wires telemetry, the HTTP server, the hub and the score
// producer. Components stop in reverse order: producer, hub, server,
// telemetry.
func newService(cfg *AppConfig, opts ...bootstrap.Option) (*service, error) {
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log := app.Logger

	metrics, err := observability.NewStreamMetrics(observability.Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("stream metrics: %w", err)
	}

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	srv := server.New(cfg.Server, log)
	events := sse.NewComponent[score.Snapshot](cfg.SSE,
		sse.WithRecorder(metrics),
		sse.WithLogger(log.WithComponent("sse_hub")),
	)
	producer := score.NewProducer(cfg.Score, events.Hub(),
		score.WithLogger(log.WithComponent("score_producer")),
	)

	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)
	srv.Handle("GET "+events.Path(), events.Handler())

	for _, c := range []component.Component{
		telemetry,
		server.NewComponent(srv),
		events,
		score.NewComponent(producer, app.Fail),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	log.Debug("Service wired", logger.Fields("stream_path", events.Path(), "addr", cfg.Server.Addr()))
	return &service{App: app, Server: srv, Hub: events.Hub(), Producer: producer}, nil
}

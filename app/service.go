// Package app wires the simulation services together: registry, planner,
// fleet, clock, dispatcher, audit store and observability sinks. One Service
// is constructed per run and owns the tick loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/logistics-sim/fleetsim/config"
	"github.com/logistics-sim/fleetsim/core/clock"
	"github.com/logistics-sim/fleetsim/core/dispatch"
	"github.com/logistics-sim/fleetsim/core/dispatch/logging"
	"github.com/logistics-sim/fleetsim/core/fleet"
	coremetrics "github.com/logistics-sim/fleetsim/core/metrics"
	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/nav"
	"github.com/logistics-sim/fleetsim/core/notify"
	"github.com/logistics-sim/fleetsim/infra/logger"
	"github.com/logistics-sim/fleetsim/infra/metrics"
	"github.com/logistics-sim/fleetsim/infra/mqtt"
)

// Service orchestrates one simulation run.
type Service struct {
	Clock      *clock.Clock
	Dispatcher *dispatch.Dispatcher
	Fleet      *fleet.Fleet

	cfg       *config.Config
	store     logging.Store
	sink      coremetrics.Sink
	publisher notify.Publisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")

	world, err := config.LoadWorld(cfg.WorldPath)
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}
	registry := nav.NewRegistry()
	for _, loc := range world.Locations {
		if err := registry.Register(loc.Code, model.Point{X: loc.X, Y: loc.Y}); err != nil {
			// First registration wins; later ones are logged and ignored.
			log.Warnf("world: %v", err)
		}
	}
	planner := nav.NewLinePlanner()
	for _, pair := range world.Blocked {
		a, okA := registry.Resolve(pair[0])
		b, okB := registry.Resolve(pair[1])
		if !okA || !okB {
			log.Warnf("world: blocked pair %v references unknown codes", pair)
			continue
		}
		planner.Block(a, b)
	}

	flt, err := fleet.New(cfg.Fleet, planner, logger.New("fleet"))
	if err != nil {
		return nil, err
	}

	store, err := logging.NewStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var pub notify.Publisher
	if cfg.MQTT.Enabled {
		pub, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	clk := clock.New(cfg.Clock, logger.New("sequencer"))
	if err := clk.Load(); err != nil {
		return nil, err
	}

	disp, err := dispatch.New(cfg.Dispatch, registry, flt, store, sink, pub, clk, uuid.NewString(), logger.New("dispatch"))
	if err != nil {
		return nil, err
	}
	clk.Subscribe(disp)

	return &Service{
		Clock:      clk,
		Dispatcher: disp,
		Fleet:      flt,
		cfg:        cfg,
		store:      store,
		sink:       sink,
		publisher:  pub,
		log:        log,
	}, nil
}

// Step performs one external tick: the clock integrates simulated time and
// fires due events, then every worker advances by the same simulated step.
func (s *Service) Step() {
	elapsed := s.Clock.Tick(s.cfg.TickSeconds)
	if elapsed > 0 {
		s.Fleet.Advance(elapsed)
	} else if !s.Clock.Running() {
		// The schedule is exhausted; keep draining the worker queues.
		s.Fleet.Advance(s.cfg.TickSeconds)
	}
	if tr, ok := s.sink.(coremetrics.TickRecorder); ok {
		if err := tr.RecordTick(s.Clock.SimTime()); err != nil {
			s.log.Errorf("metrics error: %v", err)
		}
	}
}

// Run starts the clock and blocks until the schedule is replayed, the fleet
// is drained or the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Clock.Begin(); err != nil {
		return err
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	ticker := time.NewTicker(time.Duration(s.cfg.TickIntervalMS) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Step()
			if !s.Clock.Running() && s.Fleet.Quiescent() {
				s.log.Infof("run complete at t=%.1fs", s.Clock.SimTime())
				return nil
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return err
		}
	}
	return s.store.Close()
}

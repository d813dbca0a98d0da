package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"squitter/internal/export"
	"squitter/internal/fifo"
	"squitter/internal/location"
	"squitter/internal/logging"
	"squitter/internal/metrics"
	"squitter/internal/plane"
	"squitter/internal/scope"
	"squitter/internal/transport"
	"squitter/internal/view"
)

// statsInterval is how often the snapshot-driven side effects (SBS export,
// metrics update) run, independent of the manager's own decode/sweep
// cadence.
const statsInterval = 1 * time.Second

// Application wires the transport driver, the FIFO, the manager decode
// loop, and every ambient collaborator (export, metrics, location, log
// rotation) into one runnable engine.
type Application struct {
	config Config
	logger *logrus.Logger

	driver     *transport.Driver
	manager    *plane.Manager
	db         *plane.DB
	logRotator *logging.LogRotator
	rawRotator *logging.LogRotator
	exporter   *export.Writer
	registry   *metrics.Registry
	locSource  location.Source

	metricsSrv *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplication creates an Application from config, wiring every
// component but starting none of them. ep is the transport endpoint to
// read raw bytes from (a serial port in production, any io.Reader in
// tests).
func NewApplication(config Config, ep transport.Endpoint) (*Application, error) {
	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logRotator, err := logging.NewLogRotator(config.LogDir, logging.SBSExport, config.LogRotateUTC, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log rotator: %w", err)
	}

	rawRotator, err := logging.NewLogRotator(config.LogDir, logging.RawFrames, config.LogRotateUTC, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize raw-frame log rotator: %w", err)
	}

	capacity := config.FIFOCapacity
	if capacity <= 0 {
		capacity = DefaultFIFOCapacity
	}

	f := fifo.New(capacity)
	db := plane.NewDB(nil, 0)
	manager := plane.NewManager(f, db, logger)
	driver := transport.NewDriver(ep, f, logger)
	driver.SetRawLog(rawRotator)
	exporter := export.NewWriter(logRotator, logger)
	registry := metrics.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		config:     config,
		logger:     logger,
		driver:     driver,
		manager:    manager,
		db:         db,
		logRotator: logRotator,
		rawRotator: rawRotator,
		exporter:   exporter,
		registry:   registry,
		locSource:  resolveLocation(config, logger),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// resolveLocation picks the observer location source per spec.md §4.9's
// priority: an explicit static flag wins, otherwise the persisted hint
// file, otherwise an unset/invalid position. With an NMEA device
// configured the source is a Holder seeded from the hint file (if usable);
// the feed itself is wired separately in run, since it owns a background
// goroutine rather than being a pure value.
func resolveLocation(config Config, logger *logrus.Logger) location.Source {
	if config.StaticLatSet {
		return location.NewStatic(config.StaticLat, config.StaticLon, true)
	}

	hintPath := config.LocationHint
	if hintPath == "" {
		hintPath = DefaultLocationHint
	}
	if config.NMEADevice != "" {
		return location.NewHolder(location.LoadHint(hintPath))
	}
	if lat, lon, ok := location.LoadHint(hintPath); ok {
		return location.NewStatic(lat, lon, true)
	}
	logger.Debug("no observer location available: no flag, no NMEA feed, no usable hint file")
	return location.NewStatic(0, 0, false)
}

// Start initializes and runs every component, blocking until a shutdown
// signal (SIGINT/SIGTERM) arrives, then tears everything down.
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("starting squitter")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app.run()

	<-sigChan
	app.logger.Info("received shutdown signal")
	app.Shutdown()

	return nil
}

// run launches every background goroutine: the transport driver, the
// manager decode loop, log rotation, the metrics HTTP server (if
// configured), and the periodic snapshot-driven side-effect loop.
func (app *Application) run() {
	app.driver.Start(app.ctx)
	app.manager.Start(app.ctx)

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.logRotator.Start(app.ctx)
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.rawRotator.Start(app.ctx)
	}()

	if holder, ok := app.locSource.(*location.Holder); ok && app.config.NMEADevice != "" {
		ep, err := transport.OpenSerial(transport.SerialConfig{Device: app.config.NMEADevice, Baud: DefaultBaud})
		if err != nil {
			app.logger.WithError(err).Warn("failed to open NMEA device, observer location unavailable")
		} else {
			feed := location.NewNMEAFeed(ep, holder, app.logger)
			app.wg.Add(1)
			go func() {
				defer app.wg.Done()
				feed.Run(app.ctx)
			}()
		}
	}

	if app.config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", app.registry.Handler())
		app.metricsSrv = &http.Server{Addr: app.config.MetricsAddr, Handler: mux}
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			if err := app.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				app.logger.WithError(err).Error("metrics server failed")
			}
		}()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportLoop()
	}()

	app.logger.Info("all components started")
}

// reportLoop runs every statsInterval, taking a view snapshot and driving
// its read-only consumers: SBS export and the metrics registry.
func (app *Application) reportLoop() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			snap := view.Take(app.db, time.Now())

			for _, p := range snap.Planes {
				if err := app.exporter.WriteSnapshot(p.Plane); err != nil {
					app.logger.WithError(err).Debug("failed to write SBS snapshot")
				}
			}

			app.registry.Update(metrics.Snapshot{
				MsgCount:     snap.MsgCount,
				PlaneCount:   snap.PlaneCount,
				FIFODrops:    app.driver.Drops(),
				SweepEvicted: app.db.Evictions(),
			})
		}
	}
}

// RenderScope returns one styled terminal frame of the current plane
// database, for the `scope` CLI subcommand.
func (app *Application) RenderScope() string {
	now := time.Now()
	return scope.Render(view.Take(app.db, now), now)
}

// Warm starts every background component, gives the transport driver and
// manager d to ingest live traffic, then tears everything back down. The
// `scope` CLI subcommand calls this before RenderScope so its snapshot
// reflects actual incoming frames instead of an always-empty database.
func (app *Application) Warm(d time.Duration) {
	app.run()
	time.Sleep(d)
	app.Shutdown()
}

// Shutdown stops every goroutine, persists the observer location hint,
// and releases resources. Safe to call once after Start/run.
func (app *Application) Shutdown() {
	app.logger.Info("shutting down")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.manager.Stop()
		app.driver.Stop()
		if app.metricsSrv != nil {
			_ = app.metricsSrv.Close()
		}
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("all goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("shutdown timeout, forcing exit")
	}

	if lat, lon, ok := app.locSource.Position(); ok {
		hintPath := app.config.LocationHint
		if hintPath == "" {
			hintPath = DefaultLocationHint
		}
		if err := location.SaveHint(hintPath, lat, lon); err != nil {
			app.logger.WithError(err).Warn("failed to persist observer location hint")
		}
	}

	if app.logRotator != nil {
		app.logRotator.Close()
	}
	if app.rawRotator != nil {
		app.rawRotator.Close()
	}

	app.logger.Info("shutdown completed")
}

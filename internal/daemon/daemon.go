package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/dictionary"
	"cardsort/internal/logging"
	"cardsort/internal/pipeline"
	"cardsort/internal/sorter"
)

// Sorter is the slice of the actuator the daemon reports on and shuts
// down.
type Sorter interface {
	State() sorter.State
	Faulted() bool
	Cleanup() error
}

// Daemon coordinates the scan pipeline, the HTTP API, and the camera
// monitor, and enforces single-instance execution through a lock file.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *catalog.Store
	pipeline  *pipeline.Pipeline
	corrector *dictionary.Corrector
	sorter    Sorter
	camera    *cameraMonitor
	api       *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	SorterState     sorter.State
	SorterFaulted   bool
	CatalogDBPath   string
	LockFilePath    string
	CatalogCount    int64
	DictionaryTerms int
	CameraEnabled   bool
	CameraPresent   bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, pl *pipeline.Pipeline, corrector *dictionary.Corrector, srt Sorter, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || pl == nil || corrector == nil || srt == nil {
		return nil, errors.New("daemon requires config, store, pipeline, corrector, and sorter")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "cardsortd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		pipeline:  pl,
		corrector: corrector,
		sorter:    srt,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.camera = newCameraMonitor(cfg, logger)
	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = server
	return d, nil
}

// Start acquires the daemon lock and launches the API server and camera
// monitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cardsort daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.camera.Start(d.ctx); err != nil {
		d.releaseOnStartFailure()
		return fmt.Errorf("start camera monitor: %w", err)
	}
	if err := d.api.start(d.ctx); err != nil {
		d.camera.Stop()
		d.releaseOnStartFailure()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("cardsort daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) releaseOnStartFailure() {
	_ = d.lock.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.ctx = nil
	d.cancel = nil
}

// Stop halts the API server and camera monitor, de-energizes the sorter,
// and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.camera.Stop()
	if err := d.sorter.Cleanup(); err != nil {
		d.logger.Error("failed to de-energize sorter at shutdown", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("cardsort daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddr returns the bound API address, empty until Start succeeds.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	count, err := d.store.CountCards(ctx)
	if err != nil {
		d.logger.Warn("catalog count failed", logging.Error(err))
	}
	return Status{
		Running:         d.running.Load(),
		PID:             os.Getpid(),
		SorterState:     d.sorter.State(),
		SorterFaulted:   d.sorter.Faulted(),
		CatalogDBPath:   filepath.Join(d.cfg.Paths.DataDir, "catalog.db"),
		LockFilePath:    d.lockPath,
		CatalogCount:    count,
		DictionaryTerms: d.corrector.Size(),
		CameraEnabled:   d.cfg.Camera.Enabled,
		CameraPresent:   d.camera.Present(),
	}
}

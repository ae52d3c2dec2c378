package daemon

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"cardsort/internal/config"
	"cardsort/internal/logging"
)

// cameraMonitor watches udev netlink events for the configured capture
// device so the status endpoint can report whether the camera is
// attached. The scan pipeline itself never blocks on it; operators use
// the readiness signal before feeding the hopper.
type cameraMonitor struct {
	logger *slog.Logger
	device string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
	present bool
}

// newCameraMonitor returns nil-safe disabled monitor when the camera
// section is off.
func newCameraMonitor(cfg *config.Config, logger *slog.Logger) *cameraMonitor {
	if cfg == nil || !cfg.Camera.Enabled {
		return nil
	}
	device := strings.TrimSpace(cfg.Camera.Device)
	if device == "" {
		return nil
	}
	return &cameraMonitor{
		logger: logging.NewComponentLogger(logger, "camera-monitor"),
		device: device,
	}
}

// Start begins listening for udev events. A netlink connection failure is
// non-fatal: presence falls back to the initial device probe.
func (m *cameraMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	if _, err := os.Stat(m.device); err == nil {
		m.present = true
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; camera presence is a one-shot probe",
			logging.Error(err),
			logging.String("device", m.device))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("camera monitor started",
		logging.String("device", m.device),
		logging.Bool("present", m.present))
	return nil
}

// Stop shuts down the monitor.
func (m *cameraMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
	m.logger.Info("camera monitor stopped")
}

// Present reports whether the configured capture device is attached. A
// disabled monitor reports false.
func (m *cameraMonitor) Present() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}

func (m *cameraMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, m.buildMatcher())
	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("camera monitor error", logging.Error(err))
		}
	}
}

// buildMatcher matches attach and detach events for video4linux devices.
func (m *cameraMonitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func (m *cameraMonitor) handleEvent(uevent netlink.UEvent) {
	devname := uevent.Env["DEVNAME"]
	if devname != "" && !strings.HasPrefix(devname, "/dev/") {
		devname = "/dev/" + devname
	}
	if devname != m.device {
		return
	}

	present := uevent.Action == netlink.ADD
	m.mu.Lock()
	changed := m.present != present
	m.present = present
	m.mu.Unlock()

	if changed {
		m.logger.Info("camera presence changed",
			logging.String("device", devname),
			logging.Bool("present", present))
	}
}

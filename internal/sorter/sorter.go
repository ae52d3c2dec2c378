package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/gpio"
	"cardsort/internal/logging"
	"cardsort/internal/services"
)

// Actuator drives the mechanical sorter through one sort cycle per card.
// Executions are serialized: a second caller blocks until the cycle in
// flight finishes. After an abort the actuator de-energizes every output
// before returning; if that reset itself fails the actuator latches
// faulted and refuses further cycles.
type Actuator struct {
	controller gpio.Controller
	logger     *slog.Logger

	sensorTimeout time.Duration
	pollInterval  time.Duration
	flapPulse     time.Duration
	mainFlapLead  time.Duration
	motorSettle   time.Duration

	mu sync.Mutex // serializes Execute

	statusMu sync.Mutex
	state    State
	faulted  bool
}

// New builds an actuator from the sorter timing configuration.
func New(controller gpio.Controller, cfg config.Sorter, logger *slog.Logger) *Actuator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Actuator{
		controller:    controller,
		logger:        logger,
		sensorTimeout: time.Duration(cfg.SensorTimeout) * time.Second,
		pollInterval:  time.Duration(cfg.SensorPollMS) * time.Millisecond,
		flapPulse:     time.Duration(cfg.FlapPulseMS) * time.Millisecond,
		mainFlapLead:  time.Duration(cfg.MainFlapLeadMS) * time.Millisecond,
		motorSettle:   time.Duration(cfg.MotorSettleMS) * time.Millisecond,
		state:         StateIdle,
	}
}

// State reports the actuator's current position in the sort cycle.
func (a *Actuator) State() State {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.state
}

// Faulted reports whether the actuator refused to leave an energized
// state and latched itself off.
func (a *Actuator) Faulted() bool {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.faulted
}

// Execute runs one full sort cycle toward the given direction. It blocks
// while another cycle is in flight. A sensor timeout or context
// cancellation aborts the cycle, de-energizes every output, and returns
// the cause; a failed de-energize latches the actuator faulted and
// returns a hardware fault instead.
func (a *Actuator) Execute(ctx context.Context, direction catalog.Direction) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Faulted() {
		return services.Wrap(services.ErrHardware, "sorter", "execute", "actuator latched faulted", nil)
	}

	start := time.Now()
	a.logger.Info("sort cycle starting", logging.String("direction", string(direction)))

	var err error
	switch direction {
	case catalog.DirectionLeft:
		err = a.sortLeft(ctx)
	case catalog.DirectionRight:
		err = a.sortRight(ctx)
	default:
		return services.Wrap(services.ErrValidation, "sorter", "execute", fmt.Sprintf("unknown direction %q", direction), nil)
	}
	if err != nil {
		return a.abort(err)
	}

	a.setState(StateIdle)
	a.logger.Info("sort cycle complete",
		logging.String("direction", string(direction)),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

// Cleanup forces every output low and, on failure, latches the actuator
// faulted. Safe to call at shutdown regardless of state.
func (a *Actuator) Cleanup() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reset()
}

// sortRight routes a recognized card to the right bin. The card rides the
// belt into the main sort mechanism; once it has fully passed the light
// barrier the left flaps get a short pulse to reset their rest position.
func (a *Actuator) sortRight(ctx context.Context) error {
	a.setState(StateMotorRunning)
	if err := a.activate(gpio.ChannelMotor); err != nil {
		return err
	}
	a.setState(StateAwaitingSensor)
	if err := a.waitSensor(ctx, true); err != nil {
		return err
	}
	a.setState(StateActuating)
	if err := a.activate(gpio.ChannelMainSort); err != nil {
		return err
	}
	if err := a.waitSensor(ctx, false); err != nil {
		return err
	}
	if err := a.waitSensor(ctx, true); err != nil {
		return err
	}
	if err := a.activate(gpio.ChannelFlapLeftA, gpio.ChannelFlapLeftB); err != nil {
		return err
	}
	if err := a.pause(ctx, a.flapPulse); err != nil {
		return err
	}
	if err := a.deactivate(gpio.ChannelFlapLeftA, gpio.ChannelFlapLeftB, gpio.ChannelMainSort); err != nil {
		return err
	}
	if err := a.pause(ctx, a.motorSettle); err != nil {
		return err
	}
	return a.deactivate(gpio.ChannelMotor)
}

// sortLeft routes an unrecognized card to the left bin. The flaps close
// before the main mechanism engages so the card deflects left, and stay
// closed until it has passed the barrier.
func (a *Actuator) sortLeft(ctx context.Context) error {
	a.setState(StateMotorRunning)
	if err := a.activate(gpio.ChannelMotor); err != nil {
		return err
	}
	a.setState(StateAwaitingSensor)
	if err := a.waitSensor(ctx, true); err != nil {
		return err
	}
	a.setState(StateActuating)
	if err := a.activate(gpio.ChannelFlapLeftA, gpio.ChannelFlapLeftB); err != nil {
		return err
	}
	if err := a.pause(ctx, a.mainFlapLead); err != nil {
		return err
	}
	if err := a.activate(gpio.ChannelMainSort); err != nil {
		return err
	}
	if err := a.waitSensor(ctx, false); err != nil {
		return err
	}
	if err := a.waitSensor(ctx, true); err != nil {
		return err
	}
	if err := a.deactivate(gpio.ChannelFlapLeftA, gpio.ChannelFlapLeftB); err != nil {
		return err
	}
	if err := a.pause(ctx, a.flapPulse); err != nil {
		return err
	}
	if err := a.deactivate(gpio.ChannelMainSort); err != nil {
		return err
	}
	if err := a.pause(ctx, a.motorSettle); err != nil {
		return err
	}
	return a.deactivate(gpio.ChannelMotor)
}

// waitSensor polls the light barrier until it reports the wanted state.
// True waits for an interrupted beam (card present), false for a clear
// one.
func (a *Actuator) waitSensor(ctx context.Context, interrupted bool) error {
	deadline := time.NewTimer(a.sensorTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		state, err := a.controller.Sense()
		if err != nil {
			return services.Wrap(services.ErrHardware, "sorter", "sense", "read light barrier", err)
		}
		if state == interrupted {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			want := "clear"
			if interrupted {
				want = "interrupted"
			}
			return services.Wrap(services.ErrSensorTimeout, "sorter", "wait",
				fmt.Sprintf("light barrier not %s within %s", want, a.sensorTimeout), nil)
		case <-ticker.C:
		}
	}
}

func (a *Actuator) pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// abort de-energizes everything after a failed cycle and returns the
// original cause, unless the reset itself fails.
func (a *Actuator) abort(cause error) error {
	a.logger.Warn("sort cycle aborted", logging.Error(cause))
	if err := a.reset(); err != nil {
		return err
	}
	return cause
}

// reset drives every output low. Failure here means the mechanism may
// still be energized, so the actuator latches faulted. Caller holds a.mu.
func (a *Actuator) reset() error {
	a.setState(StateResetting)
	if err := a.controller.Cleanup(); err != nil {
		a.statusMu.Lock()
		a.faulted = true
		a.statusMu.Unlock()
		a.logger.Error("failed to de-energize outputs, latching faulted", logging.Error(err))
		return services.Wrap(services.ErrHardware, "sorter", "reset", "de-energize outputs", err)
	}
	a.setState(StateIdle)
	return nil
}

func (a *Actuator) activate(channels ...gpio.Channel) error {
	for _, ch := range channels {
		if err := a.controller.Activate(ch); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actuator) deactivate(channels ...gpio.Channel) error {
	for _, ch := range channels {
		if err := a.controller.Deactivate(ch); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actuator) setState(state State) {
	a.statusMu.Lock()
	a.state = state
	a.statusMu.Unlock()
}

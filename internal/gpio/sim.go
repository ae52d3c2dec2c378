package gpio

import (
	"fmt"
	"sync"

	"cardsort/internal/services"
)

// Sample is a point-in-time snapshot of every output channel, recorded by
// the simulator after each state change.
type Sample map[Channel]bool

// Simulator is an in-memory Controller for development machines and
// tests. It mirrors the two left-flap channels the way the wiring harness
// does: driving either one drives both, so the twin-coil invariant holds
// even for buggy single-channel writes.
type Simulator struct {
	mu       sync.Mutex
	states   map[Channel]bool
	sensor   bool
	samples  []Sample
	failures map[Channel]error
	cleanErr error
}

// NewSimulator returns a simulator with all outputs low and a clear beam.
func NewSimulator() *Simulator {
	states := make(map[Channel]bool, 4)
	for _, ch := range Channels() {
		states[ch] = false
	}
	return &Simulator{states: states, failures: make(map[Channel]error)}
}

// Activate drives a channel high.
func (s *Simulator) Activate(ch Channel) error {
	return s.write(ch, true)
}

// Deactivate drives a channel low.
func (s *Simulator) Deactivate(ch Channel) error {
	return s.write(ch, false)
}

func (s *Simulator) write(ch Channel, level bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[ch]; err != nil {
		return err
	}
	if _, ok := s.states[ch]; !ok {
		return services.Wrap(services.ErrHardware, "gpio", "write", fmt.Sprintf("unknown channel %q", ch), nil)
	}

	s.states[ch] = level
	switch ch {
	case ChannelFlapLeftA:
		s.states[ChannelFlapLeftB] = level
	case ChannelFlapLeftB:
		s.states[ChannelFlapLeftA] = level
	}
	s.record()
	return nil
}

// Sense reports the simulated light-barrier state.
func (s *Simulator) Sense() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensor, nil
}

// SetSensor sets the simulated beam state: true means interrupted.
func (s *Simulator) SetSensor(interrupted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensor = interrupted
}

// Cleanup drives every output low.
func (s *Simulator) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleanErr != nil {
		return s.cleanErr
	}
	for ch := range s.states {
		s.states[ch] = false
	}
	s.record()
	return nil
}

// State reports the current level of an output channel.
func (s *Simulator) State(ch Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[ch]
}

// Samples returns a copy of every recorded snapshot, oldest first.
func (s *Simulator) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// FailChannel makes subsequent writes to a channel return err. Passing a
// nil error clears the injection.
func (s *Simulator) FailChannel(ch Channel, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, ch)
		return
	}
	s.failures[ch] = err
}

// FailCleanup makes Cleanup return err until cleared with nil.
func (s *Simulator) FailCleanup(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanErr = err
}

// record appends a snapshot. Caller holds the mutex.
func (s *Simulator) record() {
	snap := make(Sample, len(s.states))
	for ch, level := range s.states {
		snap[ch] = level
	}
	s.samples = append(s.samples, snap)
}

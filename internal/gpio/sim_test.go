package gpio_test

import (
	"errors"
	"testing"

	"cardsort/internal/gpio"
)

func TestSimulatorMirrorsLeftFlaps(t *testing.T) {
	sim := gpio.NewSimulator()

	if err := sim.Activate(gpio.ChannelFlapLeftA); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !sim.State(gpio.ChannelFlapLeftB) {
		t.Fatal("flap B did not follow flap A high")
	}

	if err := sim.Deactivate(gpio.ChannelFlapLeftB); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if sim.State(gpio.ChannelFlapLeftA) {
		t.Fatal("flap A did not follow flap B low")
	}

	for i, sample := range sim.Samples() {
		if sample[gpio.ChannelFlapLeftA] != sample[gpio.ChannelFlapLeftB] {
			t.Fatalf("sample %d: flap channels diverged: %+v", i, sample)
		}
	}
}

func TestSimulatorSensorDefaultsClear(t *testing.T) {
	sim := gpio.NewSimulator()

	interrupted, err := sim.Sense()
	if err != nil {
		t.Fatalf("Sense: %v", err)
	}
	if interrupted {
		t.Fatal("beam should start clear")
	}

	sim.SetSensor(true)
	interrupted, err = sim.Sense()
	if err != nil {
		t.Fatalf("Sense: %v", err)
	}
	if !interrupted {
		t.Fatal("SetSensor(true) not observed")
	}
}

func TestSimulatorCleanupDeenergizesEverything(t *testing.T) {
	sim := gpio.NewSimulator()
	for _, ch := range gpio.Channels() {
		if err := sim.Activate(ch); err != nil {
			t.Fatalf("Activate %s: %v", ch, err)
		}
	}

	if err := sim.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	for _, ch := range gpio.Channels() {
		if sim.State(ch) {
			t.Fatalf("channel %s still high after cleanup", ch)
		}
	}
}

func TestSimulatorFailureInjection(t *testing.T) {
	sim := gpio.NewSimulator()
	boom := errors.New("coil driver fault")

	sim.FailChannel(gpio.ChannelMotor, boom)
	if err := sim.Activate(gpio.ChannelMotor); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if sim.State(gpio.ChannelMotor) {
		t.Fatal("failed write must not change state")
	}

	sim.FailChannel(gpio.ChannelMotor, nil)
	if err := sim.Activate(gpio.ChannelMotor); err != nil {
		t.Fatalf("Activate after clearing injection: %v", err)
	}
}

func TestSimulatorUnknownChannel(t *testing.T) {
	sim := gpio.NewSimulator()
	if err := sim.Activate(gpio.Channel("lift")); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

package gpio

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"cardsort/internal/config"
	"cardsort/internal/logging"
	"cardsort/internal/services"
)

// HardwareController drives the sorter pins through the host GPIO
// registry. Output pins are driven low at construction; the sensor pin is
// configured as an input with a pull-down so a clear beam reads low.
type HardwareController struct {
	logger  *slog.Logger
	outputs map[Channel]gpio.PinIO
	sensor  gpio.PinIO
}

// NewHardwareController initializes the host drivers and claims the
// configured pins.
func NewHardwareController(cfg config.GPIO, logger *slog.Logger) (*HardwareController, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if _, err := host.Init(); err != nil {
		return nil, services.Wrap(services.ErrHardware, "gpio", "init", "initialize host drivers", err)
	}

	assignments := map[Channel]int{
		ChannelMotor:     cfg.MotorPin,
		ChannelFlapLeftA: cfg.FlapLeftA,
		ChannelFlapLeftB: cfg.FlapLeftB,
		ChannelMainSort:  cfg.MainSortPin,
	}

	outputs := make(map[Channel]gpio.PinIO, len(assignments))
	for ch, number := range assignments {
		pin, err := claimPin(number)
		if err != nil {
			return nil, err
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, services.Wrap(services.ErrHardware, "gpio", "setup", fmt.Sprintf("drive %s low", pin.Name()), err)
		}
		outputs[ch] = pin
	}

	sensor, err := claimPin(cfg.SensorPin)
	if err != nil {
		return nil, err
	}
	if err := sensor.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, services.Wrap(services.ErrHardware, "gpio", "setup", fmt.Sprintf("configure %s as input", sensor.Name()), err)
	}

	logger.Info("gpio pins claimed",
		logging.Int("motor", cfg.MotorPin),
		logging.Int("sensor", cfg.SensorPin),
		logging.Int("flap_left_a", cfg.FlapLeftA),
		logging.Int("flap_left_b", cfg.FlapLeftB),
		logging.Int("main_sort", cfg.MainSortPin))

	return &HardwareController{logger: logger, outputs: outputs, sensor: sensor}, nil
}

func claimPin(number int) (gpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", number)
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, services.Wrap(services.ErrHardware, "gpio", "setup", fmt.Sprintf("pin %s not present", name), nil)
	}
	return pin, nil
}

// Activate drives the channel's pin high.
func (c *HardwareController) Activate(ch Channel) error {
	return c.write(ch, gpio.High)
}

// Deactivate drives the channel's pin low.
func (c *HardwareController) Deactivate(ch Channel) error {
	return c.write(ch, gpio.Low)
}

func (c *HardwareController) write(ch Channel, level gpio.Level) error {
	pin, ok := c.outputs[ch]
	if !ok {
		return services.Wrap(services.ErrHardware, "gpio", "write", fmt.Sprintf("unknown channel %q", ch), nil)
	}
	if err := pin.Out(level); err != nil {
		return services.Wrap(services.ErrHardware, "gpio", "write", fmt.Sprintf("drive %s", pin.Name()), err)
	}
	return nil
}

// Sense reads the light barrier. True means the beam is interrupted.
func (c *HardwareController) Sense() (bool, error) {
	return c.sensor.Read() == gpio.High, nil
}

// Cleanup forces every output low. It keeps going past individual pin
// failures so a single bad pin cannot leave the rest energized, and
// returns the first error encountered.
func (c *HardwareController) Cleanup() error {
	var firstErr error
	for _, ch := range Channels() {
		pin, ok := c.outputs[ch]
		if !ok {
			continue
		}
		if err := pin.Out(gpio.Low); err != nil && firstErr == nil {
			firstErr = services.Wrap(services.ErrHardware, "gpio", "cleanup", fmt.Sprintf("drive %s low", pin.Name()), err)
		}
	}
	return firstErr
}

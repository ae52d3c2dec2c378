package gpio

// Channel names a logical output line of the sorter. Channels map to BCM
// pin numbers through the gpio configuration section.
type Channel string

const (
	ChannelMotor     Channel = "motor"
	ChannelFlapLeftA Channel = "flap_left_a"
	ChannelFlapLeftB Channel = "flap_left_b"
	ChannelMainSort  Channel = "main_sort"
)

// Channels lists every output channel in a stable order.
func Channels() []Channel {
	return []Channel{ChannelMotor, ChannelFlapLeftA, ChannelFlapLeftB, ChannelMainSort}
}

// Controller abstracts the pin driver so the actuator runs identically
// against real hardware and the simulator.
//
// Sense reports the light-barrier state: true means the beam is
// interrupted (a card sits in front of the sensor), false means the path
// is clear.
type Controller interface {
	Activate(ch Channel) error
	Deactivate(ch Channel) error
	Sense() (bool, error)
	Cleanup() error
}

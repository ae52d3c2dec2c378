package sorter

// State is the actuator's position in the sort cycle. Exposed for status
// reporting; transitions happen only inside Execute.
type State string

const (
	StateIdle           State = "idle"
	StateMotorRunning   State = "motor_running"
	StateAwaitingSensor State = "awaiting_sensor"
	StateActuating      State = "actuating"
	StateResetting      State = "resetting"
)

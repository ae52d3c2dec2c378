// Package sorter runs the mechanical sort cycle: conveyor motor, light
// barrier, left-flap pair, and the main sort mechanism. One Actuator owns
// the hardware; cycles are serialized and every abort path de-energizes
// the outputs before returning.
package sorter

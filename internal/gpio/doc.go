// Package gpio abstracts the sorter's pin driver. The hardware controller
// talks to the board through the periph.io host registry; the simulator
// provides the same contract in memory for development and tests.
package gpio

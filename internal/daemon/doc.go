// Package daemon hosts the long-running cardsort process: the scan
// pipeline behind an HTTP API, the camera presence monitor, and the lock
// file that enforces a single instance per machine.
package daemon

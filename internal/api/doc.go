// Package api defines the transport payloads shared by the daemon's HTTP
// server and the CLI client, plus conversions from the internal data
// model and the CSV catalog export.
package api

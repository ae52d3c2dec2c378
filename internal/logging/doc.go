// Package logging constructs the slog loggers used across cardsort.
//
// Loggers are created from configuration (format, level, output paths) and
// shared by the daemon, pipeline stages, and hardware drivers. Components
// attach a "component" attribute via NewComponentLogger so a single combined
// stream stays attributable.
package logging

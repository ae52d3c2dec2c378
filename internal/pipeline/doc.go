// Package pipeline chains the scan stages end to end: crop and OCR,
// dictionary correction, metadata enrichment, cataloging, rule routing,
// and the mechanical sort. Stage failures degrade the scan rather than
// abort it; only the actuator can fail a scan outright.
package pipeline

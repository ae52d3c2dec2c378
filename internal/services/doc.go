// Package services defines the error taxonomy shared by pipeline stages.
//
// Stages wrap failures with a sentinel marker plus stage and operation
// context. The pipeline inspects markers to decide whether an outcome is
// downgraded (extraction, match, enrichment), retried (catalog conflict),
// reported as a sort failure (sensor timeout), or treated as fatal
// (hardware fault).
package services

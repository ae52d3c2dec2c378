// Package catalog persists scanned cards and sorting rules in SQLite.
//
// It also owns the data model shared across the pipeline: Card, Rule, and
// the Direction/Attribute/Operator vocabulary. The card table enforces the
// dedup invariant with a case-insensitive partial unique index over
// canonical names, and Upsert folds the read-check-write into one atomic
// statement so concurrent scans of the same card converge on a single row.
package catalog

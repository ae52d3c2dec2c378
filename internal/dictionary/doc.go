// Package dictionary maps noisy OCR output to canonical card names.
//
// It builds a deletion-variant index over the card-name dictionary: every
// term precomputes the strings reachable by removing up to K characters, so
// a lookup only verifies the handful of terms sharing a variant with the
// query instead of scanning the whole dictionary. Candidate matches are
// verified with the Damerau-Levenshtein (optimal string alignment) distance.
//
// The index is immutable after construction. Corrector owns the current
// index behind an atomic pointer and swaps it wholesale on reload, so
// concurrent pipeline lookups never need a lock.
package dictionary

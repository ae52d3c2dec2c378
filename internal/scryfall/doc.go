// Package scryfall provides the minimal Scryfall API client used to enrich
// recognized cards with price, color identity, mana value, type line, and an
// image reference. Lookups are keyed by exact canonical name; the client
// keeps a courtesy delay between requests per the service's guidelines.
package scryfall

package dictionary

import (
	"strings"
)

// prefixLength bounds deletion-variant generation. Terms longer than this
// only index variants of their prefix, which keeps the variant count flat
// for long names while still guaranteeing every true match within maxEdit
// shares at least one variant with the query.
const prefixLength = 7

// Entry is a single dictionary term with an optional corpus frequency.
type Entry struct {
	Name      string
	Frequency int64
}

// Match is a verified correction candidate.
type Match struct {
	Name      string
	Distance  int
	Frequency int64
}

// Index is the immutable deletion-variant index. Build once, share freely.
type Index struct {
	maxEdit    int
	entries    []Entry
	normalized []string
	variants   map[string][]int32
}

// NewIndex constructs the index from dictionary entries. Entries whose
// normalized form collides keep the higher frequency.
func NewIndex(entries []Entry, maxEdit int) *Index {
	if maxEdit < 1 {
		maxEdit = 1
	}
	ix := &Index{
		maxEdit:  maxEdit,
		variants: make(map[string][]int32, len(entries)*4),
	}

	byNorm := make(map[string]int32, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		normTerm := Normalize(name)
		if normTerm == "" {
			continue
		}
		if at, ok := byNorm[normTerm]; ok {
			if entry.Frequency > ix.entries[at].Frequency {
				ix.entries[at] = Entry{Name: name, Frequency: entry.Frequency}
			}
			continue
		}
		id := int32(len(ix.entries))
		byNorm[normTerm] = id
		ix.entries = append(ix.entries, Entry{Name: name, Frequency: entry.Frequency})
		ix.normalized = append(ix.normalized, normTerm)

		for variant := range deletionVariants(normTerm, maxEdit) {
			ix.variants[variant] = append(ix.variants[variant], id)
		}
	}
	return ix
}

// Size returns the number of distinct indexed terms.
func (ix *Index) Size() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// MaxEditDistance returns the distance bound the index was built for.
func (ix *Index) MaxEditDistance() int {
	if ix == nil {
		return 0
	}
	return ix.maxEdit
}

// Lookup finds the closest dictionary term for the input. Ties on verified
// distance prefer the higher dictionary frequency, then the lexicographically
// smaller name. The boolean is false when no term lies within the distance
// bound.
func (ix *Index) Lookup(input string) (Match, bool) {
	if ix == nil {
		return Match{}, false
	}
	query := Normalize(input)
	if query == "" {
		return Match{}, false
	}

	queryRunes := len([]rune(query))
	seen := make(map[int32]struct{})
	best := Match{Distance: ix.maxEdit + 1}
	found := false

	for variant := range deletionVariants(query, ix.maxEdit) {
		for _, id := range ix.variants[variant] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			candidate := ix.normalized[id]
			diff := len([]rune(candidate)) - queryRunes
			if diff < 0 {
				diff = -diff
			}
			if diff > ix.maxEdit {
				continue
			}
			dist := boundedDistance(query, candidate, ix.maxEdit)
			if dist > ix.maxEdit {
				continue
			}
			entry := ix.entries[id]
			if !found || betterMatch(entry, dist, best) {
				best = Match{Name: entry.Name, Distance: dist, Frequency: entry.Frequency}
				found = true
			}
		}
	}
	return best, found
}

func betterMatch(entry Entry, dist int, best Match) bool {
	if dist != best.Distance {
		return dist < best.Distance
	}
	if entry.Frequency != best.Frequency {
		return entry.Frequency > best.Frequency
	}
	return strings.ToLower(entry.Name) < strings.ToLower(best.Name)
}

// deletionVariants returns the set of strings reachable from term by
// deleting up to maxEdit runes. Terms longer than prefixLength contribute
// variants of their prefix only.
func deletionVariants(term string, maxEdit int) map[string]struct{} {
	runes := []rune(term)
	if len(runes) > prefixLength {
		runes = runes[:prefixLength]
	}
	base := string(runes)

	variants := map[string]struct{}{base: {}}
	frontier := []string{base}
	for depth := 0; depth < maxEdit; depth++ {
		var next []string
		for _, s := range frontier {
			rs := []rune(s)
			if len(rs) <= 1 {
				continue
			}
			for i := range rs {
				deleted := string(rs[:i]) + string(rs[i+1:])
				if _, ok := variants[deleted]; ok {
					continue
				}
				variants[deleted] = struct{}{}
				next = append(next, deleted)
			}
		}
		frontier = next
	}
	return variants
}

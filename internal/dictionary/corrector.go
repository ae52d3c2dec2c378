package dictionary

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"cardsort/internal/logging"
)

// Corrector owns the current dictionary index and answers corrections for
// the pipeline. Lookups are lock-free; Reload rebuilds the index from the
// dictionary file and swaps it atomically.
type Corrector struct {
	path    string
	maxEdit int
	logger  *slog.Logger

	mu    sync.Mutex // serializes reloads
	index atomic.Pointer[Index]
}

// NewCorrector loads the dictionary file and builds the initial index.
func NewCorrector(path string, maxEdit int, logger *slog.Logger) (*Corrector, error) {
	c := &Corrector{
		path:    path,
		maxEdit: maxEdit,
		logger:  logging.NewComponentLogger(logger, "dictionary"),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the dictionary file and replaces the index. In-flight
// lookups keep using the previous index until the swap completes.
func (c *Corrector) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := LoadEntries(c.path)
	if err != nil {
		return err
	}
	index := NewIndex(entries, c.maxEdit)
	c.index.Store(index)
	c.logger.Info("dictionary index built",
		logging.String("path", c.path),
		logging.Int("terms", index.Size()),
		logging.Int("max_edit_distance", c.maxEdit),
	)
	return nil
}

// Size returns the number of indexed terms.
func (c *Corrector) Size() int {
	return c.index.Load().Size()
}

// Correct resolves a single OCR line to its closest canonical name.
func (c *Corrector) Correct(text string) (Match, bool) {
	return c.index.Load().Lookup(text)
}

// CorrectText resolves multi-line raw OCR output: each non-empty line is
// looked up independently and the best verified match wins, using the same
// tie-break order as single lookups.
func (c *Corrector) CorrectText(raw string) (Match, bool) {
	index := c.index.Load()
	var best Match
	found := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match, ok := index.Lookup(line)
		if !ok {
			continue
		}
		if !found || betterMatch(Entry{Name: match.Name, Frequency: match.Frequency}, match.Distance, best) {
			best = match
			found = true
		}
	}
	return best, found
}

// LoadEntries parses a dictionary file with one term per line, optionally
// followed by a tab and a frequency count. Blank lines and lines starting
// with '#' are skipped.
func LoadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		var freq int64
		if idx := strings.IndexByte(line, '\t'); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			rest := strings.TrimSpace(line[idx+1:])
			if rest != "" {
				parsed, parseErr := strconv.ParseInt(strings.Fields(rest)[0], 10, 64)
				if parseErr == nil {
					freq = parsed
				}
			}
		}
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, Frequency: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return entries, nil
}

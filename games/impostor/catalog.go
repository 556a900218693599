package impostor

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

//go:embed words.json
var defaultWords []byte

// WordEntry is a single secret word and the category it belongs to.
type WordEntry struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// sensitiveWords are excluded from the pool when the content filter is on.
// Keys are lower-cased.
var sensitiveWords = map[string]struct{}{
	"cerveza":  {},
	"vino":     {},
	"tequila":  {},
	"whisky":   {},
	"cigarro":  {},
	"casino":   {},
	"pistola":  {},
	"cárcel":   {},
	"hospital": {},
}

func isSensitive(word string) bool {
	_, ok := sensitiveWords[strings.ToLower(word)]

	return ok
}

// Catalog is the read-only word bank. It is never mutated after loading.
type Catalog struct {
	entries []WordEntry
}

func NewCatalog(entries []WordEntry) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// DefaultCatalog returns the embedded word bank.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultWords))
	if err != nil {
		panic("impostor: embedded word list is invalid: " + err.Error())
	}

	return c
}

// LoadCatalog decodes a JSON array of {word, category} objects.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var entries []WordEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding word list: %w", err)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Word) == "" || strings.TrimSpace(e.Category) == "" {
			return nil, fmt.Errorf("word list entry %d: word and category are required", i)
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}

	return &Catalog{entries: entries}, nil
}

func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Categories returns every distinct category, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, e := range c.entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	slices.Sort(cats)

	return cats
}

// Counts returns the number of entries per category.
func (c *Catalog) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range c.entries {
		counts[e.Category]++
	}

	return counts
}

// Pool returns the entries whose category is in categories, dropping
// sensitive words when filtered is set.
func (c *Catalog) Pool(categories []string, filtered bool) []WordEntry {
	pool := make([]WordEntry, 0)
	for _, e := range c.entries {
		if !slices.Contains(categories, e.Category) {
			continue
		}
		if filtered && isSensitive(e.Word) {
			continue
		}
		pool = append(pool, e)
	}

	return pool
}

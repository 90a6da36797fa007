package tag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownTag = errors.New("unknown tag")

// Catalog is the read-only set of known tags. It keeps load order so that
// consumers asking for "no ordering" get a deterministic sequence.
type Catalog struct {
	byID  map[string]Tag
	order []string
}

type catalogFile struct {
	Tags []Tag `yaml:"tags"`
}

func NewCatalog(tags []Tag) (*Catalog, error) {
	c := &Catalog{
		byID:  make(map[string]Tag, len(tags)),
		order: make([]string, 0, len(tags)),
	}
	for i, t := range tags {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("tag at position %d has no id", i)
		}
		if _, exists := c.byID[t.ID]; exists {
			return nil, fmt.Errorf("duplicate tag id %q", t.ID)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return NewCatalog(nil)
		}
		return nil, fmt.Errorf("parse tag catalog: %w", err)
	}
	return NewCatalog(file.Tags)
}

func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tag catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

func (c *Catalog) Get(id string) (Tag, bool) {
	if c == nil {
		return Tag{}, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// Lookup is Get with an error for callers that report unknown ids.
func (c *Catalog) Lookup(id string) (Tag, error) {
	t, ok := c.Get(id)
	if !ok {
		return Tag{}, fmt.Errorf("%w: %s", ErrUnknownTag, id)
	}
	return t, nil
}

// All returns a fresh slice of every tag in load order.
func (c *Catalog) All() []Tag {
	if c == nil {
		return nil
	}
	out := make([]Tag, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

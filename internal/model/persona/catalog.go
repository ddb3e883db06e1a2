package persona

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Catalog is the client-side persona cache. It keeps the order in which the
// server listed the personas, which a plain map would lose.
type Catalog struct {
	items *orderedmap.OrderedMap[string, Persona]
}

// NewCatalog builds a catalog from personas in the given order.
func NewCatalog(items ...Persona) *Catalog {
	c := &Catalog{items: orderedmap.New[string, Persona]()}
	for _, item := range items {
		c.items.Set(item.ID, item)
	}
	return c
}

// Len returns the number of personas.
func (c *Catalog) Len() int {
	if c == nil || c.items == nil {
		return 0
	}
	return c.items.Len()
}

// Get looks up a persona by id.
func (c *Catalog) Get(id string) (Persona, bool) {
	if c == nil || c.items == nil {
		return Persona{}, false
	}
	return c.items.Get(id)
}

// Name returns the display name for id, or fallback when unknown.
func (c *Catalog) Name(id, fallback string) string {
	if p, ok := c.Get(id); ok && p.Name != "" {
		return p.Name
	}
	return fallback
}

// List returns the personas in server order.
func (c *Catalog) List() []Persona {
	if c == nil || c.items == nil {
		return nil
	}
	out := make([]Persona, 0, c.items.Len())
	for pair := c.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// MarshalJSON encodes the catalog as {"id": {"name": ...}} in order. An
// empty catalog encodes as {}.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes {"id": {"name": ...}}; extra fields are ignored.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	items := orderedmap.New[string, Persona]()
	if err := json.Unmarshal(data, items); err != nil {
		return fmt.Errorf("decode persona catalog: %w", err)
	}
	for pair := items.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value
		p.ID = pair.Key
		pair.Value = p
	}
	c.items = items
	return nil
}

package market

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Catalog owns categories and their listings. Listings keep insertion order
// within a category and categories keep the order they were added, so reads
// are deterministic. Listing ids are process-wide monotonic and never reused.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	listings map[string][]Listing
	nextID   atomic.Int64
}

// NewCatalog creates a catalog seeded with the given categories.
func NewCatalog(categories ...string) *Catalog {
	c := &Catalog{listings: make(map[string][]Listing)}
	for _, name := range categories {
		_ = c.AddCategory(name)
	}
	return c
}

// AddCategory registers a new category. Names match case-sensitively;
// a duplicate yields ErrConflict.
func (c *Catalog) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty category name", ErrInvalidInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.listings[name]; ok {
		return fmt.Errorf("category %q: %w", name, ErrConflict)
	}
	c.listings[name] = nil
	c.order = append(c.order, name)
	return nil
}

// RemoveCategory deletes the category and every listing in it, returning the
// discarded listings. The cascade happens under one critical section.
func (c *Catalog) RemoveCategory(name string) ([]Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed, ok := c.listings[name]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	delete(c.listings, name)
	for i, cat := range c.order {
		if cat == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return removed, nil
}

// Categories returns category names in the order they were added.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// HasCategory reports whether the category exists (case-sensitive).
func (c *Catalog) HasCategory(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.listings[name]
	return ok
}

// AddListing validates the spec, assigns the next id and stores the listing.
func (c *Catalog) AddListing(spec ListingSpec) (Listing, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return Listing{}, fmt.Errorf("%w: listing title is required", ErrInvalidInput)
	}
	if spec.Kind == KindPhysical && strings.TrimSpace(spec.Location) == "" {
		return Listing{}, fmt.Errorf("%w: physical listings require a location", ErrInvalidInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.listings[spec.Category]; !ok {
		return Listing{}, fmt.Errorf("category %q: %w", spec.Category, ErrNotFound)
	}
	listing := Listing{
		ID:          c.nextID.Add(1),
		Category:    spec.Category,
		Title:       spec.Title,
		Price:       spec.Price,
		Deposit:     spec.Deposit,
		Kind:        spec.Kind,
		Location:    spec.Location,
		Description: spec.Description,
		Links:       spec.Links,
		OwnerID:     spec.OwnerID,
	}
	c.listings[spec.Category] = append(c.listings[spec.Category], listing)
	return listing, nil
}

// RemoveListing deletes a listing by id. The id is never reassigned.
func (c *Catalog) RemoveListing(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for cat, items := range c.listings {
		for i, item := range items {
			if item.ID == id {
				c.listings[cat] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("listing %d: %w", id, ErrNotFound)
}

// GetByID returns the listing with the given id.
func (c *Catalog) GetByID(id int64) (Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, items := range c.listings {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return Listing{}, fmt.Errorf("listing %d: %w", id, ErrNotFound)
}

// ListByCategory returns the category's listings in insertion order.
func (c *Catalog) ListByCategory(name string) []Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Listing(nil), c.listings[name]...)
}

// Search matches the keyword case-insensitively against title and description.
// A physical listing additionally requires the location filter, when given, to
// be a case-insensitive substring of its location; digital listings ignore the
// filter. Results follow category order, then insertion order.
func (c *Catalog) Search(keyword, location string) []Listing {
	keyword = strings.ToLower(keyword)
	location = strings.ToLower(strings.TrimSpace(location))

	c.mu.RLock()
	defer c.mu.RUnlock()
	var matches []Listing
	for _, cat := range c.order {
		for _, item := range c.listings[cat] {
			if !strings.Contains(strings.ToLower(item.Title), keyword) &&
				!strings.Contains(strings.ToLower(item.Description), keyword) {
				continue
			}
			if item.Kind == KindPhysical && location != "" &&
				!strings.Contains(strings.ToLower(item.Location), location) {
				continue
			}
			matches = append(matches, item)
		}
	}
	return matches
}

package market

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func physicalSpec(category, title, location string) ListingSpec {
	return ListingSpec{
		Category:    category,
		Title:       title,
		Price:       NewMoney(decimal.NewFromInt(10)),
		Kind:        KindPhysical,
		Location:    location,
		Description: "desc of " + title,
		OwnerID:     1,
	}
}

func digitalSpec(category, title string) ListingSpec {
	return ListingSpec{
		Category:    category,
		Title:       title,
		Price:       NewMoney(decimal.NewFromInt(5)),
		Kind:        KindDigital,
		Description: "desc of " + title,
		OwnerID:     1,
	}
}

func TestCatalogAddListing(t *testing.T) {
	c := NewCatalog("Cars", "Tools")

	t.Run("round trips through GetByID", func(t *testing.T) {
		added, err := c.AddListing(physicalSpec("Cars", "Car Rent", "Melbourne"))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		got, err := c.GetByID(added.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !reflect.DeepEqual(got, added) {
			t.Errorf("GetByID = %+v, want %+v", got, added)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		if _, err := c.AddListing(physicalSpec("Boats", "Yacht", "Sydney")); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects physical without location", func(t *testing.T) {
		if _, err := c.AddListing(physicalSpec("Cars", "Mystery Car", "")); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("digital needs no location", func(t *testing.T) {
		if _, err := c.AddListing(digitalSpec("Tools", "Template")); err != nil {
			t.Fatalf("add: %v", err)
		}
	})
}

func TestCatalogIDsNeverReused(t *testing.T) {
	c := NewCatalog("Cars")
	first, err := c.AddListing(physicalSpec("Cars", "One", "Melbourne"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.RemoveListing(first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := c.AddListing(physicalSpec("Cars", "Two", "Melbourne"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("id %d not greater than removed id %d", second.ID, first.ID)
	}
	if _, err := c.GetByID(first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed id still resolves: %v", err)
	}
}

func TestCatalogSearch(t *testing.T) {
	c := NewCatalog("Cars", "Digital Goods")
	car, _ := c.AddListing(physicalSpec("Cars", "Car Rent", "Melbourne"))
	tmpl, _ := c.AddListing(digitalSpec("Digital Goods", "Car Poster Template"))
	c.AddListing(physicalSpec("Cars", "Bike Rent", "Sydney"))

	t.Run("keyword is case-insensitive over title and description", func(t *testing.T) {
		got := c.Search("CAR", "")
		if len(got) != 2 || got[0].ID != car.ID || got[1].ID != tmpl.ID {
			t.Fatalf("search = %+v, want [car, template]", ids(got))
		}
	})

	t.Run("location filter binds physical items only", func(t *testing.T) {
		got := c.Search("car", "melb")
		if len(got) != 2 {
			t.Fatalf("search = %v, want physical in Melbourne plus digital", ids(got))
		}
		got = c.Search("rent", "sydney")
		if len(got) != 1 || got[0].Title != "Bike Rent" {
			t.Fatalf("search = %v, want only Sydney bike", ids(got))
		}
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		if got := c.Search("submarine", ""); len(got) != 0 {
			t.Fatalf("search = %v, want none", ids(got))
		}
	})
}

func TestCatalogRemoveCategoryCascades(t *testing.T) {
	c := NewCatalog("Cars", "Tools")
	doomed, _ := c.AddListing(physicalSpec("Cars", "Car Rent", "Melbourne"))
	kept, _ := c.AddListing(digitalSpec("Tools", "Wrench Guide"))

	removed, err := c.RemoveCategory("Cars")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(removed) != 1 || removed[0].ID != doomed.ID {
		t.Fatalf("removed = %v, want the car listing", ids(removed))
	}
	if got := c.ListByCategory("Cars"); len(got) != 0 {
		t.Errorf("ListByCategory after removal = %v", ids(got))
	}
	if got := c.Search("car", ""); len(got) != 0 {
		t.Errorf("search still surfaces removed listings: %v", ids(got))
	}
	if _, err := c.GetByID(kept.ID); err != nil {
		t.Errorf("unrelated listing lost: %v", err)
	}
	if _, err := c.RemoveCategory("Cars"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second removal err = %v, want ErrNotFound", err)
	}
}

func TestCatalogCategoryOrderDeterministic(t *testing.T) {
	c := NewCatalog("B", "A", "C")
	got := c.Categories()
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
	if err := c.AddCategory("A"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate category err = %v, want ErrConflict", err)
	}
	// Case-sensitive: "a" is a different category.
	if err := c.AddCategory("a"); err != nil {
		t.Errorf("lowercase twin rejected: %v", err)
	}
}

func TestCatalogConcurrentAddListing(t *testing.T) {
	c := NewCatalog("Cars", "Tools")
	const perWorker = 50

	var wg sync.WaitGroup
	for _, cat := range []string{"Cars", "Tools"} {
		wg.Add(1)
		go func(cat string) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				spec := physicalSpec(cat, fmt.Sprintf("%s item %d", cat, i), "Melbourne")
				if _, err := c.AddListing(spec); err != nil {
					t.Errorf("add in %s: %v", cat, err)
					return
				}
			}
		}(cat)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	total := 0
	for _, cat := range c.Categories() {
		items := c.ListByCategory(cat)
		total += len(items)
		for _, item := range items {
			if seen[item.ID] {
				t.Fatalf("duplicate id %d", item.ID)
			}
			seen[item.ID] = true
		}
	}
	if total != 2*perWorker {
		t.Fatalf("total listings = %d, want %d", total, 2*perWorker)
	}
}

func ids(listings []Listing) []int64 {
	out := make([]int64, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

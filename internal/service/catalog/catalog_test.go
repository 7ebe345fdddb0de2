package catalog_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/service/catalog"
)

func testItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "1", DishName: "Masala Dosa", VendorName: "Udupi Express", Cuisine: "South Indian", Rating: 4.5, Live: false},
		{ID: "2", DishName: "Biryani", VendorName: "Paradise", Cuisine: "Hyderabadi", Rating: 4.7, Live: true},
		{ID: "3", DishName: "Momos", VendorName: "Tibet Treats", Cuisine: "Tibetan", Rating: 4.9, Live: true},
	}
}

func TestSourceGet(t *testing.T) {
	source := catalog.NewSource(testItems())

	item, err := source.Get("2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if item.DishName != "Biryani" {
		t.Fatalf("unexpected item %+v", item)
	}

	if _, err := source.Get("404"); !errors.Is(err, domain.ErrCatalogItemNotFound) {
		t.Fatalf("expected ErrCatalogItemNotFound, got %v", err)
	}
}

func TestSourceDedupesByID(t *testing.T) {
	items := testItems()
	items = append(items, domain.CatalogItem{ID: "1", DishName: "Duplicate"})

	source := catalog.NewSource(items)
	if got := len(source.List()); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	item, _ := source.Get("1")
	if item.DishName != "Masala Dosa" {
		t.Fatalf("first item must win, got %q", item.DishName)
	}
}

func TestSourceSearch(t *testing.T) {
	source := catalog.NewSource(testItems())

	cases := []struct {
		query string
		want  int
	}{
		{"dosa", 1},
		{"PARADISE", 1},
		{"tibetan", 1},
		{"", 3},
		{"pizza", 0},
	}
	for _, tc := range cases {
		if got := len(source.Search(tc.query)); got != tc.want {
			t.Fatalf("search %q: got %d items, want %d", tc.query, got, tc.want)
		}
	}
}

func TestSourceFilterLiveSortedByRating(t *testing.T) {
	source := catalog.NewSource(testItems())

	live := source.FilterLive()
	if len(live) != 2 {
		t.Fatalf("expected 2 live items, got %d", len(live))
	}
	if live[0].ID != "3" || live[1].ID != "2" {
		t.Fatalf("expected rating-descending order, got %s, %s", live[0].ID, live[1].ID)
	}
}

func TestSourceListReturnsCopy(t *testing.T) {
	source := catalog.NewSource(testItems())

	list := source.List()
	list[0].DishName = "mutated"

	if source.List()[0].DishName == "mutated" {
		t.Fatalf("List must return a copy")
	}
}

func TestDefaultItemsAreValid(t *testing.T) {
	source := catalog.NewSource(catalog.DefaultItems())
	if len(source.List()) == 0 {
		t.Fatalf("default catalog must not be empty")
	}
	for _, item := range source.List() {
		if item.ID == "" || item.DishName == "" || item.PriceMinor <= 0 {
			t.Fatalf("invalid default item %+v", item)
		}
	}
}

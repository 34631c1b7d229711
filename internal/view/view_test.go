package view

import (
	"testing"

	"restaurant-forum/internal/domain"
)

func TestNewRestaurantHidesDeletedCategory(t *testing.T) {
	r := domain.Restaurant{
		ID:       1,
		Name:     "Sushi Bar",
		Category: domain.Category{ID: 3, Name: "Japanese", Deleted: true},
	}
	v := NewRestaurant(r)
	if v.Category.Name != UncategorizedLabel {
		t.Fatalf("category name = %q, want %q", v.Category.Name, UncategorizedLabel)
	}
	if v.Category.ID != 3 {
		t.Fatalf("category id should be kept, got %d", v.Category.ID)
	}
}

func TestNewRestaurantKeepsActiveCategory(t *testing.T) {
	v := NewRestaurant(domain.Restaurant{ID: 1, Category: domain.Category{ID: 2, Name: "Italian"}})
	if v.Category.Name != "Italian" {
		t.Fatalf("category name = %q", v.Category.Name)
	}
}

func TestNewRestaurantsNormalizesEveryRow(t *testing.T) {
	rs := NewRestaurants([]domain.Restaurant{
		{ID: 1, Category: domain.Category{ID: 1, Name: "Japanese", Deleted: true}},
		{ID: 2, Category: domain.Category{ID: 2, Name: "Thai"}},
		{ID: 3},
	})
	if rs[0].Category.Name != UncategorizedLabel || rs[1].Category.Name != "Thai" || rs[2].Category.Name != UncategorizedLabel {
		t.Fatalf("unexpected names %q / %q / %q", rs[0].Category.Name, rs[1].Category.Name, rs[2].Category.Name)
	}
}

func TestCommentRestaurantIsNormalized(t *testing.T) {
	c := NewComment(domain.Comment{
		ID:           9,
		Text:         "good",
		RestaurantID: 4,
		Restaurant:   domain.Restaurant{ID: 4, Category: domain.Category{ID: 1, Name: "Japanese", Deleted: true}},
	})
	if c.Restaurant == nil || c.Restaurant.Category.Name != UncategorizedLabel {
		t.Fatalf("comment restaurant not normalized: %+v", c.Restaurant)
	}
	if c.User != nil {
		t.Fatalf("user was not loaded and should be omitted")
	}
}

func TestDeduplicateByKey(t *testing.T) {
	in := []domain.Comment{
		{ID: 1, RestaurantID: 5},
		{ID: 2, RestaurantID: 3},
		{ID: 3, RestaurantID: 5},
		{ID: 4, RestaurantID: 7},
		{ID: 5, RestaurantID: 3},
	}
	out := DeduplicateByKey(in, func(c domain.Comment) uint { return c.RestaurantID })

	want := []uint{5, 3, 7}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, c := range out {
		if c.RestaurantID != want[i] {
			t.Fatalf("restaurant ids = %v, want %v", out, want)
		}
	}
	if out[0].ID != 1 || out[1].ID != 2 {
		t.Fatalf("first occurrence must be kept, got ids %d,%d", out[0].ID, out[1].ID)
	}
}

func TestTruncateAndIcon(t *testing.T) {
	if got := Truncate("壽司之神", 1); got != "壽" {
		t.Fatalf("Truncate rune = %q", got)
	}
	if got := Truncate("short", 50); got != "short" {
		t.Fatalf("Truncate short = %q", got)
	}
	if card := NewUserCard(domain.User{ID: 1, Name: "Alice"}); card.Icon != "A" {
		t.Fatalf("icon = %q", card.Icon)
	}
}

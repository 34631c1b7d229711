package service

import (
	"context"
	"errors"
	"testing"

	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/view"
)

func TestCategoryLifecycle(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	svc := w.svc.Categories

	if _, err := svc.Create(ctx, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank name err = %v", err)
	}
	c, err := svc.Create(ctx, " Japanese ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "Japanese" {
		t.Fatalf("name = %q", c.Name)
	}

	// 名称校验先于存在性
	if _, err := svc.Update(ctx, 999, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("update blank err = %v", err)
	}
	if _, err := svc.Update(ctx, 999, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing err = %v", err)
	}

	if err := svc.SoftDelete(ctx, c.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := svc.SoftDelete(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second soft delete err = %v", err)
	}
	if _, err := svc.Update(ctx, c.ID, "Sushi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update deleted err = %v", err)
	}

	row, _ := w.cats.FindByID(ctx, c.ID)
	if row == nil || !row.Deleted || row.Name != "Japanese" {
		t.Fatalf("row must be kept with deleted flag: %+v", row)
	}
}

func TestCategoryListSelected(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	thai := w.category("Thai")
	gone := w.category("Japanese")
	_ = w.svc.Categories.SoftDelete(ctx, gone.ID)

	got, err := w.svc.Categories.List(ctx, thai.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Categories) != 1 || got.Selected == nil || got.Selected.Name != "Thai" {
		t.Fatalf("list = %+v", got)
	}

	got, _ = w.svc.Categories.List(ctx, gone.ID)
	if got.Selected != nil {
		t.Fatalf("deleted category must not be selectable: %+v", got.Selected)
	}
}

func TestDeletedCategoryShowsPlaceholder(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	jp := w.category("Japanese")
	r := w.restaurant("Sushi Bar", jp.ID)
	_ = w.svc.Categories.SoftDelete(ctx, jp.ID)

	d, err := w.svc.Restaurants.Get(ctx, r.ID, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Restaurant.Category.Name != view.UncategorizedLabel {
		t.Fatalf("category = %q, want placeholder", d.Restaurant.Category.Name)
	}
}

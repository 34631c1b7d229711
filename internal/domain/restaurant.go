package domain

import (
	"context"
	"time"
)

type Restaurant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Tel          string    `gorm:"size:32" json:"tel"`
	Address      string    `gorm:"size:255" json:"address"`
	OpeningHours string    `gorm:"size:64" json:"openingHours"`
	Description  string    `gorm:"type:text" json:"description"`
	Image        string    `gorm:"size:512" json:"image"`
	ViewCounts   int64     `gorm:"not null;default:0" json:"viewCounts"`
	CategoryID   uint      `gorm:"index" json:"categoryId"`
	Category     Category  `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Restaurant) TableName() string { return "restaurants" }

// RestaurantFilter categoryID 为 0 表示不过滤
type RestaurantFilter struct {
	CategoryID uint
	Offset     int
	Limit      int
}

// RestaurantRepository 查询结果都会带上 Category（含已软删的）
type RestaurantRepository interface {
	Create(ctx context.Context, r *Restaurant) error
	FindByID(ctx context.Context, id uint) (*Restaurant, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Restaurant, error)
	Page(ctx context.Context, f RestaurantFilter) ([]Restaurant, int64, error)
	Latest(ctx context.Context, limit int) ([]Restaurant, error)
	ListAll(ctx context.Context) ([]Restaurant, error)
	Update(ctx context.Context, r *Restaurant) error
	IncrementViewCounts(ctx context.Context, id uint) error
}

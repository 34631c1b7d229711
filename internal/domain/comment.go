package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Text         string     `gorm:"type:text;not null" json:"text"`
	UserID       uint       `gorm:"index;not null" json:"userId"`
	RestaurantID uint       `gorm:"index;not null" json:"restaurantId"`
	User         User       `json:"user"`
	Restaurant   Restaurant `json:"restaurant"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id uint) (*Comment, error)
	Delete(ctx context.Context, id uint) (int64, error)
	// ListByRestaurant 按 created_at 倒序，预加载 User
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]Comment, error)
	// ListByUser 按 created_at 倒序，预加载 Restaurant
	ListByUser(ctx context.Context, userID uint) ([]Comment, error)
	// Latest 预加载 Restaurant 与 User
	Latest(ctx context.Context, limit int) ([]Comment, error)
	CountByRestaurant(ctx context.Context, restaurantID uint) (int64, error)
}

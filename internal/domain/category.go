package domain

import (
	"context"
	"time"
)

// Category 只做软删（Deleted=true），不物理删除
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	// FindByID 包含已软删的记录，由调用方判断 Deleted
	FindByID(ctx context.Context, id uint) (*Category, error)
	ListActive(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
}

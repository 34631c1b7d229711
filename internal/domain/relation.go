package domain

import (
	"context"
	"time"
)

// Favorite / Like / Followship 都是有向关系行；复合唯一索引保证每对最多一行

type Favorite struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_favorites_user_restaurant"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_restaurant;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string { return "favorites" }

type Like struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_likes_user_restaurant"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_likes_user_restaurant;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Like) TableName() string { return "likes" }

type Followship struct {
	ID          uint      `gorm:"primaryKey"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_followships_pair"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_followships_pair;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Followship) TableName() string { return "followships" }

// RelationRepository 对某一种关系表的访问；subject 为发起方，target 为被指向方
type RelationRepository interface {
	Exists(ctx context.Context, subjectID, targetID uint) (bool, error)
	// Create 唯一索引冲突时返回 ErrDuplicate
	Create(ctx context.Context, subjectID, targetID uint) error
	Delete(ctx context.Context, subjectID, targetID uint) (int64, error)
	TargetIDs(ctx context.Context, subjectID uint) ([]uint, error)
	SubjectIDs(ctx context.Context, targetID uint) ([]uint, error)
	// SubjectsByTarget 一次取出所有 target 的发起方，用于排行聚合
	SubjectsByTarget(ctx context.Context) (map[uint][]uint, error)
}

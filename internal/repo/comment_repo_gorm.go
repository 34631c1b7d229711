package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-forum/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CommentRepo) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var c domain.Comment
	return notFoundAsNil(&c, r.db.WithContext(ctx).First(&c, "id = ?", id).Error)
}

func (r *CommentRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}

func (r *CommentRepo) ListByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").Order("id DESC").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).Preload("Restaurant.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) Latest(ctx context.Context, limit int) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).Preload("Restaurant.Category").Preload("User").
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) CountByRestaurant(ctx context.Context, restaurantID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("restaurant_id = ?", restaurantID).Count(&n).Error
	return n, err
}

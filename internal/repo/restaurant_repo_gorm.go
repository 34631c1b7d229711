package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-forum/internal/domain"
)

type RestaurantRepo struct{ db *gorm.DB }

func NewRestaurantRepo(db *gorm.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// 写入时不级联分类，分类只能通过 CategoryRepo 修改
func (r *RestaurantRepo) Create(ctx context.Context, rest *domain.Restaurant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rest).Error
}

func (r *RestaurantRepo) Update(ctx context.Context, rest *domain.Restaurant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rest).Error
}

func (r *RestaurantRepo) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.db.WithContext(ctx).Preload("Category").First(&rest, "id = ?", id).Error
	return notFoundAsNil(&rest, err)
}

func (r *RestaurantRepo) FindByIDs(ctx context.Context, ids []uint) ([]domain.Restaurant, error) {
	rs := []domain.Restaurant{}
	if len(ids) == 0 {
		return rs, nil
	}
	err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Order("id").Find(&rs).Error
	return rs, err
}

func (r *RestaurantRepo) Page(ctx context.Context, f domain.RestaurantFilter) ([]domain.Restaurant, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		q := db.Model(&domain.Restaurant{})
		if f.CategoryID != 0 {
			q = q.Where("category_id = ?", f.CategoryID)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rs []domain.Restaurant
	err := r.db.WithContext(ctx).Scopes(scope).Preload("Category").
		Order("id").Offset(f.Offset).Limit(f.Limit).Find(&rs).Error
	if err != nil {
		return nil, 0, err
	}
	return rs, total, nil
}

func (r *RestaurantRepo) Latest(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	var rs []domain.Restaurant
	err := r.db.WithContext(ctx).Preload("Category").
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rs).Error
	return rs, err
}

func (r *RestaurantRepo) ListAll(ctx context.Context) ([]domain.Restaurant, error) {
	var rs []domain.Restaurant
	err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&rs).Error
	return rs, err
}

// IncrementViewCounts 单条 UPDATE 自增，不做读改写
func (r *RestaurantRepo) IncrementViewCounts(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.Restaurant{}).
		Where("id = ?", id).
		UpdateColumn("view_counts", gorm.Expr("view_counts + ?", 1)).Error
}

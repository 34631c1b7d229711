package repo

import (
	"context"

	"gorm.io/gorm"

	"restaurant-forum/internal/domain"
)

// RelationRepo favorites / likes / followships 三张关系表共用的实现
type RelationRepo struct {
	db         *gorm.DB
	table      string
	subjectCol string
	targetCol  string
	newRow     func(subjectID, targetID uint) any
}

func NewFavoriteRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db: db, table: "favorites", subjectCol: "user_id", targetCol: "restaurant_id",
		newRow: func(s, t uint) any { return &domain.Favorite{UserID: s, RestaurantID: t} }}
}

func NewLikeRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db: db, table: "likes", subjectCol: "user_id", targetCol: "restaurant_id",
		newRow: func(s, t uint) any { return &domain.Like{UserID: s, RestaurantID: t} }}
}

func NewFollowshipRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db: db, table: "followships", subjectCol: "follower_id", targetCol: "following_id",
		newRow: func(s, t uint) any { return &domain.Followship{FollowerID: s, FollowingID: t} }}
}

func (r *RelationRepo) pair(ctx context.Context, subjectID, targetID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where(r.subjectCol+" = ?", subjectID).
		Where(r.targetCol+" = ?", targetID)
}

func (r *RelationRepo) Exists(ctx context.Context, subjectID, targetID uint) (bool, error) {
	var n int64
	err := r.pair(ctx, subjectID, targetID).Table(r.table).Count(&n).Error
	return n > 0, err
}

func (r *RelationRepo) Create(ctx context.Context, subjectID, targetID uint) error {
	return translate(r.db.WithContext(ctx).Create(r.newRow(subjectID, targetID)).Error)
}

func (r *RelationRepo) Delete(ctx context.Context, subjectID, targetID uint) (int64, error) {
	res := r.pair(ctx, subjectID, targetID).Delete(r.newRow(0, 0))
	return res.RowsAffected, res.Error
}

func (r *RelationRepo) TargetIDs(ctx context.Context, subjectID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.subjectCol+" = ?", subjectID).
		Order("id").Pluck(r.targetCol, &ids).Error
	return ids, err
}

func (r *RelationRepo) SubjectIDs(ctx context.Context, targetID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.targetCol+" = ?", targetID).
		Order("id").Pluck(r.subjectCol, &ids).Error
	return ids, err
}

type relationPair struct {
	Subject uint
	Target  uint
}

func (r *RelationRepo) SubjectsByTarget(ctx context.Context) (map[uint][]uint, error) {
	var rows []relationPair
	err := r.db.WithContext(ctx).Table(r.table).
		Select(r.subjectCol + " AS subject, " + r.targetCol + " AS target").
		Order("id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint][]uint)
	for _, p := range rows {
		out[p.Target] = append(out[p.Target], p.Subject)
	}
	return out, nil
}

var (
	_ domain.RelationRepository   = (*RelationRepo)(nil)
	_ domain.UserRepository       = (*UserRepo)(nil)
	_ domain.CategoryRepository   = (*CategoryRepo)(nil)
	_ domain.RestaurantRepository = (*RestaurantRepo)(nil)
	_ domain.CommentRepository    = (*CommentRepo)(nil)
)

// Package service 业务用例层：前置条件校验 → 仓储读写 → 组装 view 展示模型。
// 所有错误都以 *domain.Error 的分类返回，由传输层映射成响应码。
package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/domain"
)

// Repos 业务层依赖的全部仓储
type Repos struct {
	Users       domain.UserRepository
	Categories  domain.CategoryRepository
	Restaurants domain.RestaurantRepository
	Comments    domain.CommentRepository
	Favorites   domain.RelationRepository
	Likes       domain.RelationRepository
	Followships domain.RelationRepository
}

type Services struct {
	Categories  *CategoryService
	Comments    *CommentService
	Restaurants *RestaurantService
	Users       *UserService
	Favorites   *FavoriteService
	Likes       *LikeService
	Follows     *FollowService
}

func New(r Repos, images storage.ImageStore, log *zap.Logger) *Services {
	if images == nil {
		images = storage.Disabled{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Services{
		Categories:  NewCategoryService(r.Categories),
		Comments:    NewCommentService(r.Comments, r.Restaurants, r.Users),
		Restaurants: NewRestaurantService(r, images, log),
		Users:       NewUserService(r, images, log),
		Favorites:   NewFavoriteService(r.Favorites, r.Restaurants, log),
		Likes:       NewLikeService(r.Likes, r.Restaurants, log),
		Follows:     NewFollowService(r.Followships, r.Users, log),
	}
}

var relationToggles = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "relation_toggles_total", Help: "Favorite/like/follow add and remove attempts"},
	[]string{"relation", "op", "result"},
)

func init() { prometheus.MustRegister(relationToggles) }

func restaurantExists(rs domain.RestaurantRepository) func(context.Context, uint) (bool, error) {
	return func(ctx context.Context, id uint) (bool, error) {
		r, err := rs.FindByID(ctx, id)
		return r != nil, err
	}
}

func userExists(us domain.UserRepository) func(context.Context, uint) (bool, error) {
	return func(ctx context.Context, id uint) (bool, error) {
		u, err := us.FindByID(ctx, id)
		return u != nil, err
	}
}

// inIDOrder 把 FindByIDs 的结果（按主键排序）恢复成 ids 的顺序；ids 中查不到的跳过
func inIDOrder[T any](ids []uint, rows []T, id func(T) uint) []T {
	byID := make(map[uint]T, len(rows))
	for _, r := range rows {
		byID[id(r)] = r
	}
	out := make([]T, 0, len(rows))
	for _, i := range ids {
		if r, ok := byID[i]; ok {
			out = append(out, r)
		}
	}
	return out
}

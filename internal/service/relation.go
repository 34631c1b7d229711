package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/ranking"
	"restaurant-forum/internal/view"
)

// Toggle 一种有向关系（收藏/喜欢/追踪）的建立与解除
type Toggle struct {
	Relations    domain.RelationRepository
	TargetExists func(ctx context.Context, id uint) (bool, error)
	Kind         string // 关系名，用于错误信息与指标标签
	Target       string // 目标实体名
	AllowSelf    bool
	Log          *zap.Logger
}

// Add 目标存在性与关系存在性并发检查，全部通过才写入。
// 目标不存在优先于已存在；唯一索引冲突同样视为已存在。
func (t *Toggle) Add(ctx context.Context, subjectID, targetID uint) (err error) {
	defer func() { t.observe("add", err) }()

	if !t.AllowSelf && subjectID == targetID {
		return domain.Validation("cannot %s yourself", t.Kind)
	}

	var found, exists bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		found, err = t.TargetExists(gctx, targetID)
		return err
	})
	g.Go(func() error {
		var err error
		exists, err = t.Relations.Exists(gctx, subjectID, targetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s precondition: %w", t.Kind, err)
	}
	if !found {
		return domain.NotFound("%s not found", t.Target)
	}
	if exists {
		return domain.Conflict("%s already exists", t.Kind)
	}

	if err := t.Relations.Create(ctx, subjectID, targetID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Conflict("%s already exists", t.Kind)
		}
		t.Log.Error("create relation failed", zap.String("relation", t.Kind),
			zap.Uint("subject", subjectID), zap.Uint("target", targetID), zap.Error(err))
		return fmt.Errorf("create %s: %w", t.Kind, err)
	}
	return nil
}

// Remove 没有删到任何行即 NotFound
func (t *Toggle) Remove(ctx context.Context, subjectID, targetID uint) (err error) {
	defer func() { t.observe("remove", err) }()

	n, err := t.Relations.Delete(ctx, subjectID, targetID)
	if err != nil {
		t.Log.Error("delete relation failed", zap.String("relation", t.Kind),
			zap.Uint("subject", subjectID), zap.Uint("target", targetID), zap.Error(err))
		return fmt.Errorf("delete %s: %w", t.Kind, err)
	}
	if n == 0 {
		return domain.NotFound("%s not found", t.Kind)
	}
	return nil
}

func (t *Toggle) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = domain.KindOf(err).String()
	}
	relationToggles.WithLabelValues(t.Kind, op, result).Inc()
}

// RankedRestaurant 热门餐厅条目
type RankedRestaurant struct {
	view.Restaurant
	FavoritedCount int `json:"favoritedCount"`
}

func rankRestaurants(ctx context.Context, rs domain.RestaurantRepository, favorites domain.RelationRepository, viewerID uint) ([]RankedRestaurant, error) {
	var (
		items []domain.Restaurant
		fans  map[uint][]uint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { items, err = rs.ListAll(gctx); return })
	g.Go(func() (err error) { fans, err = favorites.SubjectsByTarget(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank restaurants: %w", err)
	}

	ranked := ranking.RankTop(items, func(r domain.Restaurant) []uint { return fans[r.ID] }, viewerID, ranking.TopN)
	out := make([]RankedRestaurant, 0, len(ranked))
	for _, it := range ranked {
		v := view.NewRestaurant(it.Item).Summarize()
		v.IsFavorited = it.ViewerHasRelation
		out = append(out, RankedRestaurant{Restaurant: v, FavoritedCount: it.Count})
	}
	return out, nil
}

// FavoriteService 收藏；增删后返回刷新后的热门餐厅排行
type FavoriteService struct {
	toggle      Toggle
	restaurants domain.RestaurantRepository
}

func NewFavoriteService(favorites domain.RelationRepository, restaurants domain.RestaurantRepository, log *zap.Logger) *FavoriteService {
	return &FavoriteService{
		toggle: Toggle{
			Relations:    favorites,
			TargetExists: restaurantExists(restaurants),
			Kind:         "favorite",
			Target:       "restaurant",
			Log:          log,
		},
		restaurants: restaurants,
	}
}

func (s *FavoriteService) Add(ctx context.Context, userID, restaurantID uint) ([]RankedRestaurant, error) {
	if err := s.toggle.Add(ctx, userID, restaurantID); err != nil {
		return nil, err
	}
	return rankRestaurants(ctx, s.restaurants, s.toggle.Relations, userID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, restaurantID uint) ([]RankedRestaurant, error) {
	if err := s.toggle.Remove(ctx, userID, restaurantID); err != nil {
		return nil, err
	}
	return rankRestaurants(ctx, s.restaurants, s.toggle.Relations, userID)
}

type LikeService struct{ toggle Toggle }

func NewLikeService(likes domain.RelationRepository, restaurants domain.RestaurantRepository, log *zap.Logger) *LikeService {
	return &LikeService{toggle: Toggle{
		Relations:    likes,
		TargetExists: restaurantExists(restaurants),
		Kind:         "like",
		Target:       "restaurant",
		Log:          log,
	}}
}

func (s *LikeService) Add(ctx context.Context, userID, restaurantID uint) error {
	return s.toggle.Add(ctx, userID, restaurantID)
}

func (s *LikeService) Remove(ctx context.Context, userID, restaurantID uint) error {
	return s.toggle.Remove(ctx, userID, restaurantID)
}

// FollowService 追踪其他用户，不允许追踪自己
type FollowService struct{ toggle Toggle }

func NewFollowService(followships domain.RelationRepository, users domain.UserRepository, log *zap.Logger) *FollowService {
	return &FollowService{toggle: Toggle{
		Relations:    followships,
		TargetExists: userExists(users),
		Kind:         "follow",
		Target:       "user",
		Log:          log,
	}}
}

func (s *FollowService) Add(ctx context.Context, followerID, followingID uint) error {
	return s.toggle.Add(ctx, followerID, followingID)
}

func (s *FollowService) Remove(ctx context.Context, followerID, followingID uint) error {
	return s.toggle.Remove(ctx, followerID, followingID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/pagination"
	"restaurant-forum/internal/view"
)

const feedSize = 10

type RestaurantService struct {
	restaurants domain.RestaurantRepository
	categories  domain.CategoryRepository
	comments    domain.CommentRepository
	favorites   domain.RelationRepository
	likes       domain.RelationRepository
	images      storage.ImageStore
	log         *zap.Logger
}

func NewRestaurantService(r Repos, images storage.ImageStore, log *zap.Logger) *RestaurantService {
	return &RestaurantService{
		restaurants: r.Restaurants,
		categories:  r.Categories,
		comments:    r.Comments,
		favorites:   r.Favorites,
		likes:       r.Likes,
		images:      images,
		log:         log,
	}
}

// ListQuery CategoryID 为 0 不过滤；ViewerID 为 0 表示匿名
type ListQuery struct {
	CategoryID uint
	Limit      int
	Page       int
	ViewerID   uint
}

type RestaurantPage struct {
	Restaurants []view.Restaurant     `json:"restaurants"`
	Categories  []view.Category       `json:"categories"`
	CategoryID  uint                  `json:"categoryId"`
	Pagination  pagination.Pagination `json:"pagination"`
}

func (s *RestaurantService) List(ctx context.Context, q ListQuery) (RestaurantPage, error) {
	limit, page := pagination.Normalize(q.Limit, q.Page)

	var (
		rows       []domain.Restaurant
		total      int64
		categories []domain.Category
		favorited  []uint
		liked      []uint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rows, total, err = s.restaurants.Page(gctx, domain.RestaurantFilter{
			CategoryID: q.CategoryID,
			Offset:     pagination.GetOffset(limit, page),
			Limit:      limit,
		})
		return
	})
	g.Go(func() (err error) { categories, err = s.categories.ListActive(gctx); return })
	if q.ViewerID != 0 {
		g.Go(func() (err error) { favorited, err = s.favorites.TargetIDs(gctx, q.ViewerID); return })
		g.Go(func() (err error) { liked, err = s.likes.TargetIDs(gctx, q.ViewerID); return })
	}
	if err := g.Wait(); err != nil {
		return RestaurantPage{}, fmt.Errorf("list restaurants: %w", err)
	}

	out := make([]view.Restaurant, 0, len(rows))
	for _, r := range rows {
		v := view.NewRestaurant(r).Summarize()
		v.IsFavorited = slices.Contains(favorited, r.ID)
		v.IsLiked = slices.Contains(liked, r.ID)
		out = append(out, v)
	}
	return RestaurantPage{
		Restaurants: out,
		Categories:  view.NewCategories(categories),
		CategoryID:  q.CategoryID,
		Pagination:  pagination.GetPagination(limit, page, int(total)),
	}, nil
}

type RestaurantDetail struct {
	Restaurant view.Restaurant `json:"restaurant"`
	Comments   []view.Comment  `json:"comments"`
}

// Get 每次访问浏览数 +1（单条 UPDATE，不包事务）
func (s *RestaurantService) Get(ctx context.Context, id, viewerID uint) (RestaurantDetail, error) {
	r, err := s.mustFind(ctx, id)
	if err != nil {
		return RestaurantDetail{}, err
	}
	if err := s.restaurants.IncrementViewCounts(ctx, id); err != nil {
		return RestaurantDetail{}, fmt.Errorf("increment view counts: %w", err)
	}
	r.ViewCounts++

	var (
		comments         []domain.Comment
		favorited, liked bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { comments, err = s.comments.ListByRestaurant(gctx, id); return })
	if viewerID != 0 {
		g.Go(func() (err error) { favorited, err = s.favorites.Exists(gctx, viewerID, id); return })
		g.Go(func() (err error) { liked, err = s.likes.Exists(gctx, viewerID, id); return })
	}
	if err := g.Wait(); err != nil {
		return RestaurantDetail{}, fmt.Errorf("restaurant detail: %w", err)
	}

	v := view.NewRestaurant(*r)
	v.IsFavorited, v.IsLiked = favorited, liked
	return RestaurantDetail{Restaurant: v, Comments: view.NewComments(comments)}, nil
}

type RestaurantDashboard struct {
	Restaurant    view.Restaurant `json:"restaurant"`
	CommentCount  int64           `json:"commentCount"`
	FavoriteCount int             `json:"favoriteCount"`
}

func (s *RestaurantService) Dashboard(ctx context.Context, id uint) (RestaurantDashboard, error) {
	r, err := s.mustFind(ctx, id)
	if err != nil {
		return RestaurantDashboard{}, err
	}
	var (
		comments int64
		fans     []uint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { comments, err = s.comments.CountByRestaurant(gctx, id); return })
	g.Go(func() (err error) { fans, err = s.favorites.SubjectIDs(gctx, id); return })
	if err := g.Wait(); err != nil {
		return RestaurantDashboard{}, fmt.Errorf("restaurant dashboard: %w", err)
	}
	return RestaurantDashboard{
		Restaurant:    view.NewRestaurant(*r),
		CommentCount:  comments,
		FavoriteCount: len(fans),
	}, nil
}

type Feeds struct {
	Restaurants []view.Restaurant `json:"restaurants"`
	Comments    []view.Comment    `json:"comments"`
}

// Feeds 最新 10 家餐厅与最新 10 条评论
func (s *RestaurantService) Feeds(ctx context.Context) (Feeds, error) {
	var (
		rs []domain.Restaurant
		cs []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { rs, err = s.restaurants.Latest(gctx, feedSize); return })
	g.Go(func() (err error) { cs, err = s.comments.Latest(gctx, feedSize); return })
	if err := g.Wait(); err != nil {
		return Feeds{}, fmt.Errorf("feeds: %w", err)
	}
	return Feeds{Restaurants: view.NewRestaurants(rs), Comments: view.NewComments(cs)}, nil
}

// Top 按收藏人数排行
func (s *RestaurantService) Top(ctx context.Context, viewerID uint) ([]RankedRestaurant, error) {
	return rankRestaurants(ctx, s.restaurants, s.favorites, viewerID)
}

/* ---------- 后台 ---------- */

type AdminRestaurantPage struct {
	Restaurants []view.Restaurant     `json:"restaurants"`
	Pagination  pagination.Pagination `json:"pagination"`
}

func (s *RestaurantService) AdminList(ctx context.Context, limit, page int) (AdminRestaurantPage, error) {
	limit, page = pagination.Normalize(limit, page)
	rows, total, err := s.restaurants.Page(ctx, domain.RestaurantFilter{
		Offset: pagination.GetOffset(limit, page),
		Limit:  limit,
	})
	if err != nil {
		return AdminRestaurantPage{}, fmt.Errorf("admin list restaurants: %w", err)
	}
	return AdminRestaurantPage{
		Restaurants: view.NewRestaurants(rows),
		Pagination:  pagination.GetPagination(limit, page, int(total)),
	}, nil
}

// AdminGet 后台查看不计浏览数
func (s *RestaurantService) AdminGet(ctx context.Context, id uint) (view.Restaurant, error) {
	r, err := s.mustFind(ctx, id)
	if err != nil {
		return view.Restaurant{}, err
	}
	return view.NewRestaurant(*r), nil
}

// RestaurantInput Image 为 nil 时保留原图
type RestaurantInput struct {
	Name         string
	Tel          string
	Address      string
	OpeningHours string
	Description  string
	CategoryID   uint
	Image        *storage.Upload
}

func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (view.Restaurant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return view.Restaurant{}, domain.Validation("restaurant name is required")
	}
	cat, err := s.activeCategory(ctx, in.CategoryID)
	if err != nil {
		return view.Restaurant{}, err
	}

	r := &domain.Restaurant{}
	if err := s.apply(ctx, r, in); err != nil {
		return view.Restaurant{}, err
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return view.Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	r.Category = *cat
	return view.NewRestaurant(*r), nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in RestaurantInput) (view.Restaurant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return view.Restaurant{}, domain.Validation("restaurant name is required")
	}

	var (
		r   *domain.Restaurant
		cat *domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { r, err = s.restaurants.FindByID(gctx, id); return })
	g.Go(func() (err error) { cat, err = s.categories.FindByID(gctx, in.CategoryID); return })
	if err := g.Wait(); err != nil {
		return view.Restaurant{}, fmt.Errorf("restaurant precondition: %w", err)
	}
	if r == nil {
		return view.Restaurant{}, domain.NotFound("restaurant not found")
	}
	if cat == nil || cat.Deleted {
		return view.Restaurant{}, domain.NotFound("category not found")
	}

	if err := s.apply(ctx, r, in); err != nil {
		return view.Restaurant{}, err
	}
	if err := s.restaurants.Update(ctx, r); err != nil {
		return view.Restaurant{}, fmt.Errorf("update restaurant: %w", err)
	}
	r.Category = *cat
	return view.NewRestaurant(*r), nil
}

// apply 写入表单字段；有新图片时先上传再落库
func (s *RestaurantService) apply(ctx context.Context, r *domain.Restaurant, in RestaurantInput) error {
	if in.Image != nil {
		url, err := uploadImage(ctx, s.images, s.log, "restaurants", *in.Image)
		if err != nil {
			return err
		}
		r.Image = url
	}
	r.Name = strings.TrimSpace(in.Name)
	r.Tel = in.Tel
	r.Address = in.Address
	r.OpeningHours = in.OpeningHours
	r.Description = in.Description
	r.CategoryID = in.CategoryID
	return nil
}

func (s *RestaurantService) activeCategory(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil || c.Deleted {
		return nil, domain.NotFound("category not found")
	}
	return c, nil
}

func (s *RestaurantService) mustFind(ctx context.Context, id uint) (*domain.Restaurant, error) {
	r, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	if r == nil {
		return nil, domain.NotFound("restaurant not found")
	}
	return r, nil
}

// uploadImage 只接受内容确实是 jpeg/png/gif/webp 的文件，存储用检测出的类型
func uploadImage(ctx context.Context, images storage.ImageStore, log *zap.Logger, folder string, up storage.Upload) (string, error) {
	up, err := storage.SniffImage(up)
	if errors.Is(err, storage.ErrNotImage) {
		return "", domain.Validation("image must be jpeg/png/gif/webp")
	}
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	url, err := images.Put(ctx, folder, up)
	if errors.Is(err, storage.ErrDisabled) {
		return "", domain.Validation("image upload is not enabled")
	}
	if err != nil {
		log.Warn("image upload failed", zap.String("folder", folder), zap.String("file", up.Filename), zap.Error(err))
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

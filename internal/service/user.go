package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/pagination"
	"restaurant-forum/internal/ranking"
	"restaurant-forum/internal/view"
	"restaurant-forum/pkg/utils"
)

type UserService struct {
	users       domain.UserRepository
	restaurants domain.RestaurantRepository
	comments    domain.CommentRepository
	favorites   domain.RelationRepository
	followships domain.RelationRepository
	images      storage.ImageStore
	log         *zap.Logger
}

func NewUserService(r Repos, images storage.ImageStore, log *zap.Logger) *UserService {
	return &UserService{
		users:       r.Users,
		restaurants: r.Restaurants,
		comments:    r.Comments,
		favorites:   r.Favorites,
		followships: r.Followships,
		images:      images,
		log:         log,
	}
}

type SignUpInput struct {
	Name          string
	Email         string
	Password      string
	PasswordCheck string
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (view.Account, error) {
	if in.Password != in.PasswordCheck {
		return view.Account{}, domain.Validation("passwords do not match")
	}
	name, email := strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return view.Account{}, domain.Validation("name, email and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return view.Account{}, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return view.Account{}, domain.Conflict("email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return view.Account{}, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return view.Account{}, domain.Conflict("email already registered")
		}
		return view.Account{}, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", zap.Uint("uid", u.ID))
	return view.NewAccount(*u), nil
}

// SignIn 邮箱不存在与密码错误返回同一个错误
func (s *UserService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.Unauthenticated("invalid credentials")
	}
	return u, nil
}

// Account 当前登录用户自己的资料
func (s *UserService) Account(ctx context.Context, id uint) (view.Account, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return view.Account{}, err
	}
	return view.NewAccount(*u), nil
}

type Profile struct {
	User                 view.UserCard     `json:"user"`
	IsFollowed           bool              `json:"isFollowed"`
	Followers            []view.UserCard   `json:"followers"`
	Followings           []view.UserCard   `json:"followings"`
	FavoritedRestaurants []view.Restaurant `json:"favoritedRestaurants"`
	CommentedRestaurants []view.Restaurant `json:"commentedRestaurants"`
}

// Profile 个人主页；关注 / 收藏按建立关系的先后排列，评论过的餐厅按餐厅去重，保留最新一次评论的顺序
func (s *UserService) Profile(ctx context.Context, id, viewerID uint) (Profile, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	var (
		followers, followings []domain.User
		favorited             []domain.Restaurant
		comments              []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.followships.SubjectIDs(gctx, id)
		if err != nil {
			return err
		}
		followers, err = s.users.FindByIDs(gctx, ids)
		followers = inIDOrder(ids, followers, func(u domain.User) uint { return u.ID })
		return err
	})
	g.Go(func() error {
		ids, err := s.followships.TargetIDs(gctx, id)
		if err != nil {
			return err
		}
		followings, err = s.users.FindByIDs(gctx, ids)
		followings = inIDOrder(ids, followings, func(u domain.User) uint { return u.ID })
		return err
	})
	g.Go(func() error {
		ids, err := s.favorites.TargetIDs(gctx, id)
		if err != nil {
			return err
		}
		favorited, err = s.restaurants.FindByIDs(gctx, ids)
		favorited = inIDOrder(ids, favorited, func(r domain.Restaurant) uint { return r.ID })
		return err
	})
	g.Go(func() (err error) { comments, err = s.comments.ListByUser(gctx, id); return })
	if err := g.Wait(); err != nil {
		return Profile{}, fmt.Errorf("user profile: %w", err)
	}

	reviewed := view.DeduplicateByKey(comments, func(c domain.Comment) uint { return c.RestaurantID })
	commented := make([]view.Restaurant, 0, len(reviewed))
	for _, c := range reviewed {
		commented = append(commented, view.NewRestaurant(c.Restaurant))
	}

	isFollowed := false
	if viewerID != 0 {
		for _, f := range followers {
			if f.ID == viewerID {
				isFollowed = true
				break
			}
		}
	}
	return Profile{
		User:                 view.NewUserCard(*u),
		IsFollowed:           isFollowed,
		Followers:            view.NewUserCards(followers),
		Followings:           view.NewUserCards(followings),
		FavoritedRestaurants: view.NewRestaurants(favorited),
		CommentedRestaurants: commented,
	}, nil
}

// Get 编辑资料页，只能看自己的
func (s *UserService) Get(ctx context.Context, actorID, id uint) (view.Account, error) {
	if actorID != id {
		return view.Account{}, domain.Forbidden("cannot edit other users")
	}
	return s.Account(ctx, id)
}

// UpdateProfileInput Image 为 nil 时保留原头像
type UpdateProfileInput struct {
	Name  string
	Image *storage.Upload
}

func (s *UserService) UpdateProfile(ctx context.Context, actorID, targetID uint, in UpdateProfileInput) (view.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return view.Account{}, domain.Validation("user name is required")
	}
	if actorID != targetID {
		return view.Account{}, domain.Forbidden("cannot edit other users")
	}
	u, err := s.mustFind(ctx, targetID)
	if err != nil {
		return view.Account{}, err
	}

	if in.Image != nil {
		url, err := uploadImage(ctx, s.images, s.log, "avatars", *in.Image)
		if err != nil {
			return view.Account{}, err
		}
		u.Image = url
	}
	u.Name = name
	if err := s.users.Update(ctx, u); err != nil {
		return view.Account{}, fmt.Errorf("update user: %w", err)
	}
	return view.NewAccount(*u), nil
}

// RankedUser 热门用户条目
type RankedUser struct {
	view.UserCard
	FollowerCount int  `json:"followerCount"`
	IsFollowed    bool `json:"isFollowed"`
}

// Top 按粉丝数排行，取前 TopN
func (s *UserService) Top(ctx context.Context, viewerID uint) ([]RankedUser, error) {
	var (
		users     []domain.User
		followers map[uint][]uint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = s.users.ListAll(gctx); return })
	g.Go(func() (err error) { followers, err = s.followships.SubjectsByTarget(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank users: %w", err)
	}

	ranked := ranking.RankTop(users, func(u domain.User) []uint { return followers[u.ID] }, viewerID, ranking.TopN)
	out := make([]RankedUser, 0, len(ranked))
	for _, it := range ranked {
		out = append(out, RankedUser{
			UserCard:      view.NewUserCard(it.Item),
			FollowerCount: it.Count,
			IsFollowed:    it.ViewerHasRelation,
		})
	}
	return out, nil
}

/* ---------- 后台 ---------- */

type UserPage struct {
	Users      []view.Account        `json:"users"`
	Pagination pagination.Pagination `json:"pagination"`
}

func (s *UserService) List(ctx context.Context, limit, page int) (UserPage, error) {
	limit, page = pagination.Normalize(limit, page)
	users, total, err := s.users.List(ctx, pagination.GetOffset(limit, page), limit)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}
	out := make([]view.Account, 0, len(users))
	for _, u := range users {
		out = append(out, view.NewAccount(u))
	}
	return UserPage{Users: out, Pagination: pagination.GetPagination(limit, page, int(total))}, nil
}

// ToggleRole 在 user / admin 之间切换；管理员不能改自己的角色
func (s *UserService) ToggleRole(ctx context.Context, actorID, targetID uint) (view.Account, error) {
	if actorID == targetID {
		return view.Account{}, domain.Forbidden("cannot change your own role")
	}
	u, err := s.mustFind(ctx, targetID)
	if err != nil {
		return view.Account{}, err
	}
	if u.IsAdmin() {
		u.Role = domain.RoleUser
	} else {
		u.Role = domain.RoleAdmin
	}
	if err := s.users.Update(ctx, u); err != nil {
		return view.Account{}, fmt.Errorf("update role: %w", err)
	}
	s.log.Info("user role changed", zap.Uint("actor", actorID), zap.Uint("uid", targetID), zap.String("role", u.Role))
	return view.NewAccount(*u), nil
}

func (s *UserService) mustFind(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

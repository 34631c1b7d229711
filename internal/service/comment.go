package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/view"
)

type CommentService struct {
	comments    domain.CommentRepository
	restaurants domain.RestaurantRepository
	users       domain.UserRepository
}

func NewCommentService(comments domain.CommentRepository, restaurants domain.RestaurantRepository, users domain.UserRepository) *CommentService {
	return &CommentService{comments: comments, restaurants: restaurants, users: users}
}

func (s *CommentService) Create(ctx context.Context, userID, restaurantID uint, text string) (view.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return view.Comment{}, domain.Validation("comment text is required")
	}

	var (
		rest *domain.Restaurant
		user *domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { rest, err = s.restaurants.FindByID(gctx, restaurantID); return })
	g.Go(func() (err error) { user, err = s.users.FindByID(gctx, userID); return })
	if err := g.Wait(); err != nil {
		return view.Comment{}, fmt.Errorf("comment precondition: %w", err)
	}
	if rest == nil {
		return view.Comment{}, domain.NotFound("restaurant not found")
	}
	if user == nil {
		return view.Comment{}, domain.NotFound("user not found")
	}

	c := &domain.Comment{Text: text, UserID: userID, RestaurantID: restaurantID}
	if err := s.comments.Create(ctx, c); err != nil {
		return view.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	c.User = *user
	return view.NewComment(*c), nil
}

// Delete 返回被删的评论，调用方据其 RestaurantID 跳回餐厅页
func (s *CommentService) Delete(ctx context.Context, id uint) (view.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return view.Comment{}, fmt.Errorf("find comment: %w", err)
	}
	if c == nil {
		return view.Comment{}, domain.NotFound("comment not found")
	}
	n, err := s.comments.Delete(ctx, id)
	if err != nil {
		return view.Comment{}, fmt.Errorf("delete comment: %w", err)
	}
	if n == 0 {
		return view.Comment{}, domain.NotFound("comment not found")
	}
	return view.NewComment(*c), nil
}

package view

import (
	"time"

	"restaurant-forum/internal/domain"
)

type Comment struct {
	ID           uint        `json:"id"`
	Text         string      `json:"text"`
	RestaurantID uint        `json:"restaurantId"`
	CreatedAt    time.Time   `json:"createdAt"`
	User         *UserCard   `json:"user,omitempty"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
}

// NewComment 关联对象未预加载（ID 为 0）时不输出
func NewComment(c domain.Comment) Comment {
	v := Comment{ID: c.ID, Text: c.Text, RestaurantID: c.RestaurantID, CreatedAt: c.CreatedAt}
	if c.User.ID != 0 {
		u := NewUserCard(c.User)
		v.User = &u
	}
	if c.Restaurant.ID != 0 {
		r := NewRestaurant(c.Restaurant)
		v.Restaurant = &r
	}
	return v
}

func NewComments(cs []domain.Comment) []Comment {
	out := make([]Comment, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewComment(c))
	}
	return out
}

// DeduplicateByKey 保留每个 key 的第一次出现，维持原有相对顺序
func DeduplicateByKey[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

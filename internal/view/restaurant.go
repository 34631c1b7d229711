package view

import (
	"time"

	"restaurant-forum/internal/domain"
)

const listDescriptionRunes = 50

type Restaurant struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Tel          string    `json:"tel"`
	Address      string    `json:"address"`
	OpeningHours string    `json:"openingHours"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	ViewCounts   int64     `json:"viewCounts"`
	Category     Category  `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	IsFavorited  bool      `json:"isFavorited"`
	IsLiked      bool      `json:"isLiked"`
}

// NewRestaurant 所有餐厅读路径都经由这里，分类占位名在此处统一处理
func NewRestaurant(r domain.Restaurant) Restaurant {
	return Restaurant{
		ID:           r.ID,
		Name:         r.Name,
		Tel:          r.Tel,
		Address:      r.Address,
		OpeningHours: r.OpeningHours,
		Description:  r.Description,
		Image:        r.Image,
		ViewCounts:   r.ViewCounts,
		Category:     NewCategory(r.Category),
		CreatedAt:    r.CreatedAt,
	}
}

func NewRestaurants(rs []domain.Restaurant) []Restaurant {
	out := make([]Restaurant, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRestaurant(r))
	}
	return out
}

// Summarize 列表页只展示描述前 50 个字符
func (r Restaurant) Summarize() Restaurant {
	r.Description = Truncate(r.Description, listDescriptionRunes)
	return r
}

// Truncate 按字符（rune）截断
func Truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

// Package view 只读展示模型。由领域实体单向构建，不会回写仓储。
package view

import "restaurant-forum/internal/domain"

// UncategorizedLabel 分类被软删（或餐厅没有分类）时显示的占位名
const UncategorizedLabel = "未分類"

type Category struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"-"`
}

func NewCategory(c domain.Category) Category {
	v := Category{ID: c.ID, Name: c.Name, Deleted: c.Deleted}
	NormalizeCategoryDisplay(&v)
	return v
}

func NewCategories(cs []domain.Category) []Category {
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCategory(c))
	}
	return out
}

// NormalizeCategoryDisplay 已软删的分类绝不能泄露原名称
func NormalizeCategoryDisplay(c *Category) {
	if c.Deleted || c.ID == 0 {
		c.Name = UncategorizedLabel
	}
}

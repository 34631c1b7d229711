// Package ranking 按关系行数量排出 Top-N（热门餐厅、热门用户共用）。
package ranking

import "slices"

const TopN = 10

// Ranked 排行条目；ViewerHasRelation 表示当前浏览者是否在该条目的关系集合中
type Ranked[T any] struct {
	Item              T    `json:"item"`
	Count             int  `json:"count"`
	ViewerHasRelation bool `json:"viewerHasRelation"`
}

// RankTop 以 related(item) 的长度为计数做稳定降序排序（同数保持输入顺序），截取前 n 个。
// viewerID 为 0 视为匿名，ViewerHasRelation 恒为 false；n <= 0 不截断。
func RankTop[T any](items []T, related func(T) []uint, viewerID uint, n int) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		ids := related(it)
		out = append(out, Ranked[T]{
			Item:              it,
			Count:             len(ids),
			ViewerHasRelation: viewerID != 0 && slices.Contains(ids, viewerID),
		})
	}
	slices.SortStableFunc(out, func(a, b Ranked[T]) int { return b.Count - a.Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

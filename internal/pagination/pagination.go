// Package pagination 分页计算：纯函数，无副作用，不返回错误。
package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 9
	DefaultPage  = 1
)

type Pagination struct {
	TotalPage   int   `json:"totalPage"`
	CurrentPage int   `json:"currentPage"`
	Prev        int   `json:"prev"`
	Next        int   `json:"next"`
	Pages       []int `json:"pages"`
}

// ParseLimit 缺省/非数字/<=0 一律回落到 DefaultLimit
func ParseLimit(s string) int { return parsePositive(s, DefaultLimit) }

// ParsePage 缺省/非数字/<=0 一律回落到 DefaultPage
func ParsePage(s string) int { return parsePositive(s, DefaultPage) }

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Normalize 非正的 limit / page 回落到默认值
func Normalize(limit, page int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	return limit, page
}

func GetOffset(limit, page int) int {
	limit, page = Normalize(limit, page)
	return (page - 1) * limit
}

// GetPagination 越界页码会被夹到 [1, TotalPage]；空结果集时 TotalPage=0，其余页码为 1
func GetPagination(limit, page, total int) Pagination {
	limit, page = Normalize(limit, page)
	if total < 0 {
		total = 0
	}
	totalPage := (total + limit - 1) / limit

	pages := make([]int, totalPage)
	for i := range pages {
		pages[i] = i + 1
	}
	if totalPage == 0 {
		return Pagination{CurrentPage: 1, Prev: 1, Next: 1, Pages: pages}
	}

	current := min(page, totalPage)
	return Pagination{
		TotalPage:   totalPage,
		CurrentPage: current,
		Prev:        max(current-1, 1),
		Next:        min(current+1, totalPage),
		Pages:       pages,
	}
}

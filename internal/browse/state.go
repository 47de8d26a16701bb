package browse

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/zenith/internal/model"
)

// SortKey 列表排序字段
type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortTitle     SortKey = "title"
	SortCategory  SortKey = "category"
	SortReadTime  SortKey = "readTime"
)

// SortDir 排序方向
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// wordsPerMinute 阅读时长估算速度
const wordsPerMinute = 200

// ParseSortKey 校验命令行/配置里的排序字段
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortCreatedAt, SortTitle, SortCategory, SortReadTime:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseSortDir 校验排序方向
func ParseSortDir(s string) (SortDir, error) {
	switch d := SortDir(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// State 客户端全部状态；View 只读它，不修改
type State struct {
	Posts     []*model.Post
	Query     string
	SortBy    SortKey
	SortDir   SortDir
	Favorites []string
	Theme     string
}

// NewState 默认按创建时间倒序、暗色主题
func NewState() *State {
	return &State{SortBy: SortCreatedAt, SortDir: Desc, Theme: ThemeDark}
}

// View 过滤后排序，返回新切片；排序稳定，相等元素保持原顺序
func View(s *State) []*model.Post {
	q := strings.ToLower(strings.TrimSpace(s.Query))
	out := make([]*model.Post, 0, len(s.Posts))
	for _, p := range s.Posts {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}

	cmp := compareBy(s.SortBy)
	desc := s.SortDir == Desc
	slices.SortStableFunc(out, func(a, b *model.Post) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func matches(p *model.Post, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

func compareBy(key SortKey) func(a, b *model.Post) int {
	switch key {
	case SortTitle:
		return func(a, b *model.Post) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
	case SortCategory:
		return func(a, b *model.Post) int {
			return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		}
	case SortReadTime:
		return func(a, b *model.Post) int { return ReadTime(a.Content) - ReadTime(b.Content) }
	default:
		return func(a, b *model.Post) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// ReadTime 估算阅读分钟数，至少 1 分钟
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return max(1, int(math.Round(float64(words)/wordsPerMinute)))
}

// Excerpt 超过 n 个字符时截断并追加省略号
func Excerpt(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:n])) + "…"
}

// IsFavorite 是否已收藏
func (s *State) IsFavorite(id string) bool {
	return slices.Contains(s.Favorites, id)
}

// ToggleFavorite 收藏/取消收藏，返回操作后是否为收藏状态
func (s *State) ToggleFavorite(id string) bool {
	if i := slices.Index(s.Favorites, id); i >= 0 {
		s.Favorites = slices.Delete(slices.Clone(s.Favorites), i, i+1)
		return false
	}
	s.Favorites = append(slices.Clone(s.Favorites), id)
	return true
}

// FavoritePosts 已加载文章中被收藏的部分，保持 Posts 中的顺序
func FavoritePosts(s *State) []*model.Post {
	out := make([]*model.Post, 0, len(s.Favorites))
	for _, p := range s.Posts {
		if s.IsFavorite(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// RemovePost 服务端删除成功后同步本地状态
func (s *State) RemovePost(id string) {
	s.Posts = slices.DeleteFunc(slices.Clone(s.Posts), func(p *model.Post) bool { return p.ID == id })
	if i := slices.Index(s.Favorites, id); i >= 0 {
		s.Favorites = slices.Delete(slices.Clone(s.Favorites), i, i+1)
	}
}

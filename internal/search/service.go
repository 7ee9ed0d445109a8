// Package search 指南和分类的全文子串搜索
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/packages/response"

	"gorm.io/gorm"
)

const (
	MinQueryLength = 2
	MaxGuidelines  = 5
	MaxCategories  = 3
	excerptRunes   = 160
)

const (
	TypeGuideline = "guideline"
	TypeCategory  = "category"
)

// Result 单条搜索结果
type Result struct {
	Type    string `json:"type"`
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt,omitempty"`
	Path    string `json:"path"`
}

// Source 搜索的数据来源
type Source interface {
	Guidelines(ctx context.Context, pattern string, limit int) ([]wiki.Guideline, error)
	Categories(ctx context.Context, pattern string, limit int) ([]wiki.Category, error)
}

type SearchService struct {
	source Source
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{source: NewGormSource(db)}
}

// NewSearchServiceWithSource 便于替换数据来源
func NewSearchServiceWithSource(source Source) *SearchService {
	return &SearchService{source: source}
}

// Search 查询少于 2 个字符直接返回空结果，不访问数据库
// 指南在前（最多 5 条，按更新时间倒序），分类在后（最多 3 条，按名称）
func (s *SearchService) Search(ctx context.Context, query string) ([]Result, *response.BusinessError) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []Result{}, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	guidelines, err := s.source.Guidelines(ctx, pattern, MaxGuidelines)
	if err != nil {
		return nil, failed(err)
	}
	categories, err := s.source.Categories(ctx, pattern, MaxCategories)
	if err != nil {
		return nil, failed(err)
	}

	results := make([]Result, 0, len(guidelines)+len(categories))
	for _, g := range guidelines {
		results = append(results, Result{
			Type:    TypeGuideline,
			ID:      g.ID,
			Title:   g.Title,
			Slug:    g.Slug,
			Excerpt: excerpt(g.Content, q),
			Path:    "/guidelines/" + g.Slug,
		})
	}
	for _, c := range categories {
		var desc string
		if c.Description != nil {
			desc = excerpt(*c.Description, q)
		}
		results = append(results, Result{
			Type:    TypeCategory,
			ID:      c.ID,
			Title:   c.Name,
			Slug:    c.Slug,
			Excerpt: desc,
			Path:    "/categories/" + c.Slug,
		})
	}
	return results, nil
}

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '\'
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// excerpt 截取匹配位置附近的一段正文
func excerpt(text, query string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}

	start := 0
	lower := []rune(strings.ToLower(text))
	if idx := indexRunes(lower, []rune(strings.ToLower(query))); idx > excerptRunes/2 {
		start = idx - excerptRunes/4
	}
	end := start + excerptRunes
	if end > len(runes) {
		end = len(runes)
		start = end - excerptRunes
	}

	out := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		out = "…" + out
	}
	if end < len(runes) {
		out += "…"
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func failed(err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage("搜索失败"),
		response.WithError(err),
	)
}

package feed

import (
	"cmp"
	"slices"
)

// DefaultPerCategoryLimit 是"今日议题"里每个分类最多保留的条数
const DefaultPerCategoryLimit = 2

// BuildDigest 生成跨分类的"今日议题"：
// 按分类分组（无分类的文章直接丢弃），组内按来源总数降序稳定排序取前 perCategoryLimit 条，
// 再按分类首次出现的顺序拼接，最后按 ID 去重（保留第一次出现的）。
// perCategoryLimit <= 0 时使用 DefaultPerCategoryLimit。
func BuildDigest(articles []Article, perCategoryLimit int) []Article {
	if perCategoryLimit <= 0 {
		perCategoryLimit = DefaultPerCategoryLimit
	}

	order, groups := groupByCategory(articles)

	candidates := make([]Article, 0, len(order)*perCategoryLimit)
	for _, category := range order {
		candidates = append(candidates, topByScore(groups[category], perCategoryLimit)...)
	}

	return dedupeByID(candidates)
}

// FilterByCategory 返回指定分类下的全部文章，保持输入顺序，不限条数。
// 空分类不匹配任何文章。
func FilterByCategory(articles []Article, category string) []Article {
	out := make([]Article, 0)
	if category == "" {
		return out
	}
	for _, a := range articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// groupByCategory 返回分类首次出现的顺序以及每个分类下的文章（组内保持输入顺序）
func groupByCategory(articles []Article) ([]string, map[string][]Article) {
	order := make([]string, 0)
	groups := make(map[string][]Article)

	for _, a := range articles {
		if a.Category == "" {
			continue
		}
		if _, ok := groups[a.Category]; !ok {
			order = append(order, a.Category)
		}
		groups[a.Category] = append(groups[a.Category], a)
	}

	return order, groups
}

// topByScore 在副本上按 TotalSourceCount 降序稳定排序后取前 limit 条；并列时保持原相对顺序
func topByScore(group []Article, limit int) []Article {
	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b Article) int {
		return cmp.Compare(b.TotalSourceCount, a.TotalSourceCount)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// dedupeByID 按 ID 去重，先出现的保留
func dedupeByID(items []Article) []Article {
	out := make([]Article, 0, len(items))
	seen := make(map[int64]struct{})

	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}

	return out
}

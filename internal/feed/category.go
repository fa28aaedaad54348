package feed

import (
	"errors"
	"fmt"
)

// AllKey 是聚合视图（今日议题）的分类 key
const AllKey = "all"

// Category 是分类词表中的一项
type Category struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Vocabulary 是有序的分类词表，顺序即展示顺序
type Vocabulary []Category

// DefaultVocabulary 返回产品默认的分类词表
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{Key: AllKey, Label: "오늘의 이슈"},
		{Key: "politics", Label: "정치"},
		{Key: "international", Label: "국제"},
		{Key: "sports", Label: "스포츠"},
		{Key: "economy", Label: "경제"},
		{Key: "science", Label: "과학"},
		{Key: "social", Label: "사회"},
		{Key: "culture", Label: "문화"},
	}
}

// Lookup 按 key 查找分类
func (v Vocabulary) Lookup(key string) (Category, bool) {
	for _, c := range v {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Keys 返回全部 key，保持词表顺序
func (v Vocabulary) Keys() []string {
	keys := make([]string, 0, len(v))
	for _, c := range v {
		keys = append(keys, c.Key)
	}
	return keys
}

// Validate 检查词表：key 非空且唯一，并且必须包含聚合 key
func (v Vocabulary) Validate() error {
	if len(v) == 0 {
		return errors.New("vocabulary is empty")
	}
	seen := make(map[string]struct{}, len(v))
	for i, c := range v {
		if c.Key == "" {
			return fmt.Errorf("category #%d has empty key", i)
		}
		if _, ok := seen[c.Key]; ok {
			return fmt.Errorf("duplicate category key %q", c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	if _, ok := seen[AllKey]; !ok {
		return fmt.Errorf("vocabulary must contain %q", AllKey)
	}
	return nil
}

// Select 根据分类 key 选择文章：all 走 BuildDigest，其余 key 走 FilterByCategory
func Select(articles []Article, key string, perCategoryLimit int) []Article {
	if key == AllKey {
		return BuildDigest(articles, perCategoryLimit)
	}
	return FilterByCategory(articles, key)
}

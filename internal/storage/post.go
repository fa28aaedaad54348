package storage

import (
	"time"

	"github.com/LJTian/NewsLens/internal/feed"
)

// Post 对应外部存储中的 posts 表。可为空的列使用指针。
// news_sources 是聚合来源总数，left/mid/right_news_sources 分别对应进步/中道/保守来源数。
type Post struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:text" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  *string   `gorm:"column:image_url;type:text" json:"imageUrl"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	Category  *string   `gorm:"size:64;index" json:"category"`

	NewsSources      *int64 `gorm:"column:news_sources" json:"newsSources"`
	LeftNewsSources  *int64 `gorm:"column:left_news_sources" json:"leftNewsSources"`
	MidNewsSources   *int64 `gorm:"column:mid_news_sources" json:"midNewsSources"`
	RightNewsSources *int64 `gorm:"column:right_news_sources" json:"rightNewsSources"`

	LeftContent  *string `gorm:"column:left_content;type:text" json:"leftContent"`
	MidContent   *string `gorm:"column:mid_content;type:text" json:"midContent"`
	RightContent *string `gorm:"column:right_content;type:text" json:"rightContent"`
}

func (Post) TableName() string {
	return "posts"
}

// Article 把一行 posts 转为引擎使用的值快照，计数在 feed.NewArticle 中统一兜底
func (p Post) Article() feed.Article {
	return feed.NewArticle(feed.Record{
		ID:           p.ID,
		Category:     deref(p.Category),
		Title:        p.Title,
		ImageURL:     deref(p.ImageURL),
		CreatedAt:    p.CreatedAt,
		TotalSources: p.NewsSources,
		Progressive:  p.LeftNewsSources,
		Centrist:     p.MidNewsSources,
		Conservative: p.RightNewsSources,
	})
}

// Articles 批量转换，保持顺序
func Articles(posts []Post) []feed.Article {
	out := make([]feed.Article, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Article())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LJTian/NewsLens/internal/feed"
	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/storage"
	"github.com/gin-gonic/gin"
)

// perspective 是详情页中某一倾向的摘要内容与来源统计
type perspective struct {
	Leaning string `json:"leaning"`
	Content string `json:"content"`
	Sources int    `json:"sources"`
	Percent int    `json:"percent"`
}

type newsDetail struct {
	ID           int64                   `json:"id"`
	Title        string                  `json:"title"`
	Content      string                  `json:"content"`
	ImageURL     string                  `json:"imageUrl,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	Category     string                  `json:"category"`
	TotalSources int                     `json:"totalSources"`
	Leaning      feed.LeaningPercentages `json:"leaning"`
	Perspectives []perspective           `json:"perspectives"`
}

type createNewsRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	Category string `json:"category"`
}

// listNews 按分类返回新闻：category=all（缺省或为空时同样视为 all）返回今日议题，其余 key 返回该分类全部新闻
func (s *Server) listNews(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = feed.AllKey
	}
	if _, ok := s.categories.Lookup(category); !ok {
		respondError(c, http.StatusBadRequest, "invalid_category", "unknown category: "+category)
		return
	}

	posts, err := s.store.ListPosts(c.Request.Context())
	if err != nil {
		s.log.Error("list posts failed", logger.String("category", category), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "failed to load news",
			"data":    []feed.Entry{},
		})
		return
	}

	articles := storage.Articles(posts)
	selected := feed.Select(articles, category, s.limit)
	if category == feed.AllKey {
		s.metrics.ObserveDigest(len(articles), len(selected))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     "ok",
		"message":  "success",
		"category": category,
		"data":     feed.Annotate(selected),
	})
}

func (s *Server) getNews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	p, err := s.store.GetPost(c.Request.Context(), id)
	if errors.Is(err, storage.ErrPostNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "news not found")
		return
	}
	if err != nil {
		s.log.Error("get post failed", logger.Int64("id", id), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    buildDetail(p),
	})
}

func buildDetail(p *storage.Post) newsDetail {
	a := p.Article()
	pct := feed.ComputeLeaningPercentages(a.Leaning)

	return newsDetail{
		ID:           a.ID,
		Title:        p.Title,
		Content:      p.Content,
		ImageURL:     a.ImageURL,
		CreatedAt:    p.CreatedAt,
		Category:     a.Category,
		TotalSources: a.TotalSourceCount,
		Leaning:      pct,
		Perspectives: []perspective{
			{Leaning: "progressive", Content: derefString(p.LeftContent), Sources: a.Leaning.Progressive, Percent: pct.Progressive},
			{Leaning: "centrist", Content: derefString(p.MidContent), Sources: a.Leaning.Centrist, Percent: pct.Centrist},
			{Leaning: "conservative", Content: derefString(p.RightContent), Sources: a.Leaning.Conservative, Percent: pct.Conservative},
		},
	}
}

func (s *Server) createNews(c *gin.Context) {
	var req createNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	category := strings.TrimSpace(req.Category)
	if category != "" {
		if _, ok := s.categories.Lookup(category); !ok || category == feed.AllKey {
			respondError(c, http.StatusBadRequest, "invalid_category", "unknown category: "+category)
			return
		}
	}

	p, err := s.store.CreatePost(c.Request.Context(), storage.NewPost{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: category,
	})
	if errors.Is(err, storage.ErrInvalidPost) {
		respondError(c, http.StatusBadRequest, "invalid_request", "title and content are required")
		return
	}
	if err != nil {
		s.log.Error("create post failed", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    "ok",
		"message": "created",
		"data":    p,
	})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

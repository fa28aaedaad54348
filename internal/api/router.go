package api

import (
	"context"
	"net/http"

	"github.com/LJTian/NewsLens/internal/feed"
	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/metrics"
	"github.com/LJTian/NewsLens/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PostStore 是 API 依赖的存储能力
type PostStore interface {
	ListPosts(ctx context.Context) ([]storage.Post, error)
	GetPost(ctx context.Context, id int64) (*storage.Post, error)
	CreatePost(ctx context.Context, in storage.NewPost) (*storage.Post, error)
}

type Options struct {
	Categories       feed.Vocabulary
	PerCategoryLimit int
	Logger           logger.Logger
	Metrics          *metrics.Metrics
	// Gatherer 为 /metrics 提供数据，nil 时使用默认 registry
	Gatherer prometheus.Gatherer
}

type Server struct {
	store      PostStore
	categories feed.Vocabulary
	limit      int
	log        logger.Logger
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
}

func NewServer(store PostStore, opts Options) *Server {
	s := &Server{
		store:      store,
		categories: opts.Categories,
		limit:      opts.PerCategoryLimit,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		gatherer:   opts.Gatherer,
	}
	if len(s.categories) == 0 {
		s.categories = feed.DefaultVocabulary()
	}
	if s.limit <= 0 {
		s.limit = feed.DefaultPerCategoryLimit
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	return s
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/categories", s.listCategories)
		v1.GET("/news", s.listNews)
		v1.GET("/news/:id", s.getNews)
		v1.POST("/news", s.createNews)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.categories,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/LJTian/NewsLens/internal/feed"
	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/metrics"
	"github.com/LJTian/NewsLens/internal/storage"
	"github.com/robfig/cron/v3"
)

// PostSource 是预热任务需要的存储能力
type PostSource interface {
	RefreshPosts(ctx context.Context) ([]storage.Post, error)
}

// Scheduler 定时刷新文章列表缓存，并重新计算今日议题的规模
type Scheduler struct {
	cron    *cron.Cron
	source  PostSource
	limit   int
	timeout time.Duration
	log     logger.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func New(spec string, source PostSource, limit int, log logger.Logger, m *metrics.Metrics) (*Scheduler, error) {
	if log == nil {
		log = logger.NewNop()
	}
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		source:  source,
		limit:   limit,
		timeout: 30 * time.Second,
		log:     log.With(logger.String("component", "scheduler")),
		metrics: m,
	}

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 启动时立即预热一次，首个请求即可命中缓存
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	}()
}

// Stop 停止调度并等待正在执行的任务（包括启动时的预热）结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// RunOnce 执行一次刷新；错误只记录日志，返回本次摘要条数
func (s *Scheduler) RunOnce(ctx context.Context) int {
	start := time.Now()

	posts, err := s.source.RefreshPosts(ctx)
	if err != nil {
		s.log.Error("refresh posts failed", logger.Error(err))
		return 0
	}

	articles := storage.Articles(posts)
	digest := feed.BuildDigest(articles, s.limit)
	s.metrics.ObserveDigest(len(articles), len(digest))

	s.log.Info("feed refreshed",
		logger.Int("articles", len(articles)),
		logger.Int("digest", len(digest)),
		logger.Duration("took", time.Since(start)),
	)
	return len(digest)
}

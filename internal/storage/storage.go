package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/metrics"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// ErrPostNotFound 指定 id 的文章不存在
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidPost 新建文章的参数不合法
	ErrInvalidPost = errors.New("invalid post")
)

type Options struct {
	PostgresDSN string
	RedisAddr   string
	AutoMigrate bool
	Logger      logger.Logger
	Metrics     *metrics.Metrics
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client

	cache *listCache
	log   logger.Logger
}

// NewPost 是新建文章的输入
type NewPost struct {
	Title    string
	Content  string
	ImageURL string
	Category string
}

func NewStore(opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	db, err := gorm.Open(postgres.Open(opts.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// posts 表归外部存储所有，仅在本地开发时自动建表
	if opts.AutoMigrate {
		if err := db.AutoMigrate(&Post{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	var rdb *redis.Client
	if opts.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed", logger.String("addr", opts.RedisAddr), logger.Error(err))
		}
	}

	return NewStoreWithDB(db, rdb, log, opts.Metrics), nil
}

// NewStoreWithDB 使用已有连接构造 Store；rdb 可以为 nil（关闭缓存）
func NewStoreWithDB(db *gorm.DB, rdb *redis.Client, log logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		DB:    db,
		Redis: rdb,
		cache: &listCache{rdb: rdb, ttl: postListCacheTTL, log: log, metrics: m},
		log:   log,
	}
}

// ListPosts 返回全部文章，按创建时间倒序；优先读 Redis 缓存
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	if cached, ok := s.cache.get(ctx); ok {
		return cached, nil
	}
	return s.RefreshPosts(ctx)
}

// RefreshPosts 跳过缓存直接查库并重写缓存；查到空列表时删除缓存，不保留旧数据
func (s *Store) RefreshPosts(ctx context.Context) ([]Post, error) {
	gen := s.cache.generation(ctx)

	var list []Post
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if len(list) == 0 {
		s.cache.invalidate(ctx, false)
		return list, nil
	}
	s.cache.set(ctx, gen, list)
	return list, nil
}

// GetPost 按 id 查询单篇文章，不存在时返回 ErrPostNotFound
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	var p Post
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &p, nil
}

// CreatePost 新建文章：标题与内容去空白后不能为空，空图片地址存为 NULL；成功后清理列表缓存
func (s *Store) CreatePost(ctx context.Context, in NewPost) (*Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidPost)
	}

	p := &Post{
		Title:    title,
		Content:  content,
		ImageURL: strPtr(strings.TrimSpace(in.ImageURL)),
		Category: strPtr(strings.TrimSpace(in.Category)),
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	// 提交后自增代号，查库早于本次提交的刷新不会再回写旧列表
	s.cache.invalidate(ctx, true)

	s.log.Info("post created", logger.Int64("id", p.ID), logger.String("category", deref(p.Category)))
	return p, nil
}

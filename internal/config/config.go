package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/LJTian/NewsLens/internal/feed"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort string

	PostgresDSN   string
	RedisAddr     string
	DBAutoMigrate bool

	CronSpec string

	// 今日议题中每个分类最多展示的条数
	PerCategoryLimit int
	Categories       feed.Vocabulary

	BasicAuthUser string
	BasicAuthPass string

	LogLevel string
}

// categoriesFile 是 CATEGORIES_FILE 指向的 YAML 文件结构
type categoriesFile struct {
	Categories []feed.Category `yaml:"categories"`
}

func Load() *Config {
	loadEnvFiles()

	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "9000"),
		PostgresDSN:      getEnv("POSTGRES_DSN", "host=localhost user=newslens password=newslens dbname=newslens port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		DBAutoMigrate:    getEnvBool("DB_AUTO_MIGRATE", false),
		CronSpec:         getEnv("CRON_SPEC", "*/10 * * * *"),
		PerCategoryLimit: getEnvInt("DIGEST_PER_CATEGORY", feed.DefaultPerCategoryLimit),
		Categories:       feed.DefaultVocabulary(),
		BasicAuthUser:    os.Getenv("APP_BASIC_USER"),
		BasicAuthPass:    os.Getenv("APP_BASIC_PASS"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if cfg.PerCategoryLimit <= 0 {
		log.Printf("warn: DIGEST_PER_CATEGORY must be positive, using %d", feed.DefaultPerCategoryLimit)
		cfg.PerCategoryLimit = feed.DefaultPerCategoryLimit
	}

	if path := os.Getenv("CATEGORIES_FILE"); path != "" {
		vocab, err := loadCategories(path)
		if err != nil {
			log.Printf("warn: %v (falling back to default categories)", err)
		} else {
			cfg.Categories = vocab
		}
	}

	log.Printf("config loaded: port=%s cron=%s per_category=%d categories=%d",
		cfg.AppPort, cfg.CronSpec, cfg.PerCategoryLimit, len(cfg.Categories))
	return cfg
}

// loadEnvFiles 依次加载 .env.local 与 .env；已存在的环境变量不会被覆盖，文件不存在时忽略
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			log.Printf("warn: load %s: %v", f, err)
		}
	}
}

func loadCategories(path string) (feed.Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file %s: %w", path, err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	vocab := feed.Vocabulary(f.Categories)
	if err := vocab.Validate(); err != nil {
		return nil, fmt.Errorf("categories file %s: %w", path, err)
	}
	return vocab, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

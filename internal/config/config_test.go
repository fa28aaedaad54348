package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LJTian/NewsLens/internal/feed"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	// 环境变量未设置时，应该返回默认值
	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	// 环境变量设置后，应优先返回环境变量
	t.Setenv(key, "8080")
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestGetEnvIntAndBool(t *testing.T) {
	t.Setenv("TEST_LIMIT", "3")
	if got := getEnvInt("TEST_LIMIT", 2); got != 3 {
		t.Fatalf("getEnvInt = %d, want 3", got)
	}
	t.Setenv("TEST_LIMIT", "three")
	if got := getEnvInt("TEST_LIMIT", 2); got != 2 {
		t.Fatalf("getEnvInt with garbage = %d, want default 2", got)
	}

	t.Setenv("TEST_FLAG", "true")
	if !getEnvBool("TEST_FLAG", false) {
		t.Fatalf("getEnvBool(true) = false")
	}
	t.Setenv("TEST_FLAG", "maybe")
	if getEnvBool("TEST_FLAG", false) {
		t.Fatalf("getEnvBool with garbage should return default")
	}
}

func TestLoadReadsAuthPortsAndLimit(t *testing.T) {
	t.Setenv("APP_PORT", "1234")
	t.Setenv("APP_BASIC_USER", "user")
	t.Setenv("APP_BASIC_PASS", "pass")
	t.Setenv("DIGEST_PER_CATEGORY", "0")
	t.Setenv("CATEGORIES_FILE", "")

	cfg := Load()
	if cfg.AppPort != "1234" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "1234")
	}
	if cfg.BasicAuthUser != "user" || cfg.BasicAuthPass != "pass" {
		t.Fatalf("BasicAuthUser/Pass not loaded correctly: %+v", cfg)
	}
	// 非正数回退为默认值
	if cfg.PerCategoryLimit != feed.DefaultPerCategoryLimit {
		t.Fatalf("PerCategoryLimit = %d, want %d", cfg.PerCategoryLimit, feed.DefaultPerCategoryLimit)
	}
	if len(cfg.Categories) != len(feed.DefaultVocabulary()) {
		t.Fatalf("expected default categories, got %v", cfg.Categories)
	}
}

func TestLoadCategoriesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	content := "categories:\n  - key: all\n    label: Today\n  - key: tech\n    label: Tech\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("CATEGORIES_FILE", path)
	cfg := Load()
	if got := cfg.Categories.Keys(); len(got) != 2 || got[0] != "all" || got[1] != "tech" {
		t.Fatalf("categories from file = %v", got)
	}
}

func TestLoadCategoriesRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - key: tech\n"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	if _, err := loadCategories(path); err == nil {
		t.Fatalf("expected error for vocabulary without %q", feed.AllKey)
	}
	if _, err := loadCategories(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	t.Setenv("CATEGORIES_FILE", path)
	if cfg := Load(); len(cfg.Categories) != len(feed.DefaultVocabulary()) {
		t.Fatalf("invalid file should fall back to defaults, got %v", cfg.Categories)
	}
}

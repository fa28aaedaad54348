package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LJTian/NewsLens/internal/config"
	"github.com/LJTian/NewsLens/internal/feed"
	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/storage"
	"github.com/spf13/cobra"
)

// 一个只执行一次选取的命令行入口：读取全部文章，按分类输出带倾向百分比的列表（JSON）
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		category string
		limit    int
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print today's issues digest or a single category as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if !cmd.Flags().Changed("limit") {
				limit = cfg.PerCategoryLimit
			}
			if _, ok := cfg.Categories.Lookup(category); !ok {
				return fmt.Errorf("unknown category %q (known: %v)", category, cfg.Categories.Keys())
			}

			lg, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = lg.Sync() }()

			store, err := storage.NewStore(storage.Options{
				PostgresDSN: cfg.PostgresDSN,
				RedisAddr:   cfg.RedisAddr,
				Logger:      lg,
			})
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var posts []storage.Post
			if refresh {
				posts, err = store.RefreshPosts(ctx)
			} else {
				posts, err = store.ListPosts(ctx)
			}
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), storage.Articles(posts), category, limit)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", feed.AllKey, "category key; \"all\" builds the digest")
	cmd.Flags().IntVarP(&limit, "limit", "n", feed.DefaultPerCategoryLimit, "max articles per category in the digest")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the list cache and rewrite it")
	return cmd
}

func render(w io.Writer, articles []feed.Article, category string, limit int) error {
	entries := feed.Annotate(feed.Select(articles, category, limit))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

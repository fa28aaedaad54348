package feed

import (
	"database/sql"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// LeaningCounts 是一篇聚合新闻中进步 / 中道 / 保守三类来源的数量
type LeaningCounts struct {
	Progressive  int `json:"progressive"`
	Centrist     int `json:"centrist"`
	Conservative int `json:"conservative"`
}

// Total 返回三类来源数量之和；按 int64 累加，32 位平台上也不会溢出
func (c LeaningCounts) Total() int64 {
	return int64(c.Progressive) + int64(c.Centrist) + int64(c.Conservative)
}

// Article 是引擎处理的值快照，构造后字段均已合法（计数非负）。
// Title / ImageURL / CreatedAt 只做透传，供展示层使用。
type Article struct {
	ID               int64         `json:"id"`
	Category         string        `json:"category"`
	TotalSourceCount int           `json:"totalSources"`
	Leaning          LeaningCounts `json:"leaningSources"`

	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record 是上游存储给出的宽松结构，计数字段可能缺失或不是数字
type Record struct {
	ID        int64
	Category  string
	Title     string
	ImageURL  string
	CreatedAt time.Time

	TotalSources any
	Progressive  any
	Centrist     any
	Conservative any
}

// NewArticle 在构造时统一做计数兜底，调用方不必在每个读取点再判断
func NewArticle(r Record) Article {
	return Article{
		ID:               r.ID,
		Category:         r.Category,
		TotalSourceCount: CoerceCount(r.TotalSources),
		Leaning: LeaningCounts{
			Progressive:  CoerceCount(r.Progressive),
			Centrist:     CoerceCount(r.Centrist),
			Conservative: CoerceCount(r.Conservative),
		},
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
	}
}

// CoerceCount 把任意输入转换为非负整数计数：
// 缺失、非数字、NaN/Inf 一律为 0，小数向零截断，负数截为 0。
func CoerceCount(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		return clampInt64(int64(x))
	case int8:
		return clampInt64(int64(x))
	case int16:
		return clampInt64(int64(x))
	case int32:
		return clampInt64(int64(x))
	case int64:
		return clampInt64(x)
	case uint:
		return clampUint64(uint64(x))
	case uint8:
		return clampUint64(uint64(x))
	case uint16:
		return clampUint64(uint64(x))
	case uint32:
		return clampUint64(uint64(x))
	case uint64:
		return clampUint64(x)
	case float32:
		return clampFloat(float64(x))
	case float64:
		return clampFloat(x)
	case string:
		return parseCount(x)
	case json.Number:
		return parseCount(x.String())
	case sql.NullInt64:
		if !x.Valid {
			return 0
		}
		return clampInt64(x.Int64)
	case sql.NullInt32:
		if !x.Valid {
			return 0
		}
		return clampInt64(int64(x.Int32))
	case sql.NullFloat64:
		if !x.Valid {
			return 0
		}
		return clampFloat(x.Float64)
	case *int:
		if x == nil {
			return 0
		}
		return CoerceCount(*x)
	case *int32:
		if x == nil {
			return 0
		}
		return CoerceCount(*x)
	case *int64:
		if x == nil {
			return 0
		}
		return CoerceCount(*x)
	case *float64:
		if x == nil {
			return 0
		}
		return CoerceCount(*x)
	case *string:
		if x == nil {
			return 0
		}
		return CoerceCount(*x)
	default:
		return 0
	}
}

func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampFloat(f)
}

func clampInt64(n int64) int {
	if n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func clampFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

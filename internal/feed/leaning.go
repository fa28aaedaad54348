package feed

import "math"

// LeaningPercentages 是展示用的三类倾向百分比，每项都在 [0, 100]
type LeaningPercentages struct {
	Progressive  int `json:"progressive"`
	Centrist     int `json:"centrist"`
	Conservative int `json:"conservative"`
}

// ComputeLeaningPercentages 按 round(count/total*100) 分别计算三类占比，
// 使用 math.Round（四舍五入，.5 远离零）。total 为 0 时全部为 0。
// 三项之和不保证等于 100（例如 1/1/1 得到 33/33/33），这是产品既有行为，不做归一化。
func ComputeLeaningPercentages(c LeaningCounts) LeaningPercentages {
	total := c.Total()
	if total <= 0 {
		return LeaningPercentages{}
	}
	return LeaningPercentages{
		Progressive:  percentOf(c.Progressive, total),
		Centrist:     percentOf(c.Centrist, total),
		Conservative: percentOf(c.Conservative, total),
	}
}

func percentOf(n int, total int64) int {
	if n <= 0 {
		return 0
	}
	p := int(math.Round(float64(n) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// Entry 是一条展示行：文章本身加上计算好的倾向百分比
type Entry struct {
	Article
	Percentages LeaningPercentages `json:"leaning"`
}

// Annotate 为每篇文章附上倾向百分比，顺序与输入一致
func Annotate(articles []Article) []Entry {
	out := make([]Entry, 0, len(articles))
	for _, a := range articles {
		out = append(out, Entry{
			Article:     a,
			Percentages: ComputeLeaningPercentages(a.Leaning),
		})
	}
	return out
}

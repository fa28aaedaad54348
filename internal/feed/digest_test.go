package feed

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func art(id int64, category string, total int) Article {
	return Article{ID: id, Category: category, TotalSourceCount: total}
}

func ids(items []Article) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestBuildDigestTopTwoPerCategory(t *testing.T) {
	in := []Article{
		art(1, "sports", 5),
		art(2, "sports", 9),
		art(3, "sports", 1),
		art(4, "economy", 3),
	}

	got := BuildDigest(in, 2)
	if diff := cmp.Diff([]int64{2, 1, 4}, ids(got)); diff != "" {
		t.Fatalf("BuildDigest ids mismatch (-want +got):\n%s", diff)
	}
	// 输出元素应与输入逐字段一致
	if diff := cmp.Diff(in[1], got[0]); diff != "" {
		t.Fatalf("digest element should be drawn verbatim from input:\n%s", diff)
	}
}

func TestBuildDigestEmptyAndUncategorized(t *testing.T) {
	if got := BuildDigest(nil, 2); len(got) != 0 {
		t.Fatalf("BuildDigest(nil) = %v, want empty", got)
	}

	in := []Article{art(1, "", 10), art(2, "", 3)}
	if got := BuildDigest(in, 2); len(got) != 0 {
		t.Fatalf("uncategorized articles should be dropped, got %v", ids(got))
	}
}

func TestBuildDigestSmallGroupKeepsAll(t *testing.T) {
	in := []Article{art(7, "science", 0)}
	got := BuildDigest(in, 2)
	if diff := cmp.Diff([]int64{7}, ids(got)); diff != "" {
		t.Fatalf("single short group mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDigestTiesKeepInputOrder(t *testing.T) {
	in := []Article{
		art(10, "politics", 4),
		art(11, "politics", 4),
		art(12, "politics", 4),
		art(13, "politics", 2),
	}
	got := BuildDigest(in, 2)
	if diff := cmp.Diff([]int64{10, 11}, ids(got)); diff != "" {
		t.Fatalf("ties should keep input order (-want +got):\n%s", diff)
	}
}

func TestBuildDigestLargeCounts(t *testing.T) {
	in := []Article{
		art(1, "politics", 0),
		art(2, "politics", math.MaxInt),
		art(3, "politics", math.MaxInt-1),
		art(4, "politics", math.MaxInt),
	}
	got := BuildDigest(in, 3)
	if diff := cmp.Diff([]int64{2, 4, 3}, ids(got)); diff != "" {
		t.Fatalf("large counts order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDigestCategoryFirstAppearanceOrder(t *testing.T) {
	in := []Article{
		art(1, "culture", 1),
		art(2, "economy", 8),
		art(3, "culture", 5),
		art(4, "", 100),
		art(5, "international", 2),
	}
	got := BuildDigest(in, 2)
	if diff := cmp.Diff([]int64{3, 1, 2, 5}, ids(got)); diff != "" {
		t.Fatalf("categories should follow first appearance (-want +got):\n%s", diff)
	}
}

func TestBuildDigestDropsRepeatedIDs(t *testing.T) {
	in := []Article{
		art(1, "sports", 5),
		art(1, "economy", 9),
		art(2, "economy", 1),
		art(3, "sports", 2),
	}
	got := BuildDigest(in, 2)
	if diff := cmp.Diff([]int64{1, 3, 2}, ids(got)); diff != "" {
		t.Fatalf("repeated id should keep first occurrence (-want +got):\n%s", diff)
	}
	if got[0].Category != "sports" {
		t.Fatalf("first occurrence of id 1 should be the sports one, got %q", got[0].Category)
	}
}

func TestBuildDigestNonPositiveLimitUsesDefault(t *testing.T) {
	in := []Article{art(1, "sports", 1), art(2, "sports", 2), art(3, "sports", 3)}
	for _, limit := range []int{0, -3} {
		got := BuildDigest(in, limit)
		if len(got) != DefaultPerCategoryLimit {
			t.Fatalf("BuildDigest(limit=%d) len = %d, want %d", limit, len(got), DefaultPerCategoryLimit)
		}
	}
}

func TestBuildDigestDoesNotMutateInput(t *testing.T) {
	in := []Article{art(1, "sports", 1), art(2, "sports", 9)}
	before := ids(in)
	_ = BuildDigest(in, 1)
	if diff := cmp.Diff(before, ids(in)); diff != "" {
		t.Fatalf("input order changed (-before +after):\n%s", diff)
	}
}

func randomArticles(r *rand.Rand, n int) []Article {
	categories := []string{"", "politics", "sports", "economy", "science"}
	out := make([]Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Article{
			ID:               int64(r.IntN(n/2 + 1)),
			Category:         categories[r.IntN(len(categories))],
			TotalSourceCount: r.IntN(6),
		})
	}
	return out
}

func TestBuildDigestProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 2024))

	for round := 0; round < 200; round++ {
		in := randomArticles(r, r.IntN(40))
		limit := 1 + r.IntN(3)
		got := BuildDigest(in, limit)

		seen := make(map[int64]struct{})
		perCategory := make(map[string]int)
		for _, a := range got {
			if _, ok := seen[a.ID]; ok {
				t.Fatalf("round %d: duplicate id %d in digest", round, a.ID)
			}
			seen[a.ID] = struct{}{}
			perCategory[a.Category]++

			found := false
			for _, src := range in {
				if src == a {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("round %d: digest element %+v not present in input", round, a)
			}
		}
		for c, n := range perCategory {
			if c == "" {
				t.Fatalf("round %d: uncategorized article leaked into digest", round)
			}
			if n > limit {
				t.Fatalf("round %d: category %q has %d items, limit %d", round, c, n, limit)
			}
		}

		again := BuildDigest(got, limit)
		if diff := cmp.Diff(ids(got), ids(again)); diff != "" {
			t.Fatalf("round %d: digest is not a fixed point (-first +second):\n%s", round, diff)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	in := []Article{
		art(1, "sports", 5),
		art(2, "economy", 9),
		art(3, "sports", 1),
		art(4, "", 3),
	}

	got := FilterByCategory(in, "sports")
	if diff := cmp.Diff([]int64{1, 3}, ids(got)); diff != "" {
		t.Fatalf("FilterByCategory mismatch (-want +got):\n%s", diff)
	}

	if got := FilterByCategory(in, "culture"); len(got) != 0 {
		t.Fatalf("unknown category should be empty, got %v", ids(got))
	}
	if got := FilterByCategory(in, ""); len(got) != 0 {
		t.Fatalf("empty category should match nothing, got %v", ids(got))
	}
	if got := FilterByCategory(nil, "sports"); got == nil || len(got) != 0 {
		t.Fatalf("FilterByCategory(nil) should be empty non-nil slice, got %#v", got)
	}
}

func TestFilterByCategoryKeepsAllWithoutLimit(t *testing.T) {
	in := make([]Article, 0, 10)
	for i := int64(0); i < 10; i++ {
		in = append(in, art(i, "social", int(i)))
	}
	got := FilterByCategory(in, "social")
	if diff := cmp.Diff(ids(in), ids(got)); diff != "" {
		t.Fatalf("filter should keep every match in order (-want +got):\n%s", diff)
	}
}

package analytics

import (
	"testing"
	"time"

	"tally/internal/core"
)

func TestRankUsersTieBreakByName(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Bob", "Sales"),
		tx("e2", core.KindExpense, 1000, core.NewDate(2024, 1, 6), "Food", "Alice", "Engineering"),
	}

	ranked := RankUsers(txs, now)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(ranked))
	}
	if ranked[0].Name != "Alice" || ranked[0].Rank != 1 || ranked[0].Badge != BadgeGold {
		t.Fatalf("equal totals tie-break by name: expected Alice gold first, got %+v", ranked[0])
	}
	if ranked[1].Name != "Bob" || ranked[1].Rank != 2 || ranked[1].Badge != BadgeSilver {
		t.Fatalf("expected Bob silver second, got %+v", ranked[1])
	}
}

func TestRankDescendingDenseRanks(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 100, core.NewDate(2024, 1, 5), "Food", "Carol", "Ops"),
		tx("e2", core.KindExpense, 900, core.NewDate(2024, 1, 6), "Food", "Dave", "Ops"),
		tx("e3", core.KindExpense, 500, core.NewDate(2024, 1, 7), "Food", "Erin", "Ops"),
		tx("e4", core.KindExpense, 300, core.NewDate(2024, 1, 8), "Food", "Frank", "Ops"),
	}

	ranked := RankUsers(txs, now)
	wantOrder := []string{"Dave", "Erin", "Frank", "Carol"}
	wantBadges := []Badge{BadgeGold, BadgeSilver, BadgeBronze, BadgeNone}
	for i := range wantOrder {
		if ranked[i].Name != wantOrder[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantOrder[i], ranked[i].Name)
		}
		if ranked[i].Rank != i+1 {
			t.Fatalf("ranks must be dense and 1-based, got %d at %d", ranked[i].Rank, i)
		}
		if ranked[i].Badge != wantBadges[i] {
			t.Fatalf("position %d: expected badge %s, got %s", i, wantBadges[i], ranked[i].Badge)
		}
	}
}

func TestRankTotalOrderProperty(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 400, core.NewDate(2024, 1, 5), "Food", "Zoe", "Ops"),
		tx("e2", core.KindExpense, 400, core.NewDate(2024, 1, 6), "Food", "Amy", "Ops"),
		tx("e3", core.KindExpense, 700, core.NewDate(2024, 1, 7), "Food", "Mia", "Ops"),
	}

	ranked := RankUsers(txs, now)
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			a, b := ranked[i], ranked[j]
			if a.Total.Cents < b.Total.Cents {
				t.Fatalf("higher amount must rank better: %+v before %+v", a, b)
			}
			if a.Total.Cents == b.Total.Cents && a.Name > b.Name {
				t.Fatalf("ties must order by ascending name: %+v before %+v", a, b)
			}
		}
	}
}

func TestEfficiencyScoreBounds(t *testing.T) {
	cases := []struct {
		total int64
		count int
		scale int64
		want  float64
	}{
		{0, 0, 1000, 100},     // no transactions
		{50000, 1, 1000, 50},  // avg 500.00 -> 100-50
		{1000000, 1, 1000, 0}, // clamped low
		{2000, 2, 1000, 99},   // avg 10.00 -> barely dented
	}
	for i, tc := range cases {
		got := efficiencyScore(core.Money{Cents: tc.total}, tc.count, tc.scale)
		if got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
	for _, tc := range cases {
		got := efficiencyScore(core.Money{Cents: tc.total}, tc.count, tc.scale)
		if got < 0 || got > 100 {
			t.Fatalf("score out of bounds: %v", got)
		}
	}
}

func TestRankPerEntityTrend(t *testing.T) {
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 1500, core.NewDate(2024, 2, 5), "Food", "Alice", "Engineering"),
		tx("e3", core.KindExpense, 200, core.NewDate(2024, 2, 6), "Food", "Bob", "Sales"),
	}

	ranked := RankUsers(txs, now)
	if ranked[0].Name != "Alice" {
		t.Fatalf("expected Alice first, got %s", ranked[0].Name)
	}
	if ranked[0].GrowthPercent != 50 {
		t.Fatalf("Alice trend must use only her transactions, got %v", ranked[0].GrowthPercent)
	}
	// Bob has no January activity, so his previous period is zero.
	if ranked[1].GrowthPercent != 0 {
		t.Fatalf("zero previous period is flat, got %v", ranked[1].GrowthPercent)
	}
}

package analytics

import (
	"testing"

	"tally/internal/core"
)

func TestGroupSumFirstSeenOrder(t *testing.T) {
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 300, core.NewDate(2024, 1, 6), "Travel", "Alice", "Engineering"),
		tx("e3", core.KindExpense, 500, core.NewDate(2024, 1, 7), "Food", "Bob", "Sales"),
	}

	buckets := GroupSum(txs, ByCategory)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "Food" || buckets[1].Key != "Travel" {
		t.Fatalf("keys must keep first-seen order, got %q, %q", buckets[0].Key, buckets[1].Key)
	}
	if buckets[0].Total.Cents != 1500 || buckets[0].Count != 2 {
		t.Fatalf("Food bucket: expected 1500/2, got %d/%d", buckets[0].Total.Cents, buckets[0].Count)
	}
	if len(buckets[0].TxIDs) != 2 || buckets[0].TxIDs[0] != "e1" || buckets[0].TxIDs[1] != "e3" {
		t.Fatalf("Food bucket must trace contributing ids, got %v", buckets[0].TxIDs)
	}
}

func TestGroupSumByMonthChronological(t *testing.T) {
	txs := []core.Transaction{
		tx("e2", core.KindExpense, 500, core.NewDate(2024, 2, 5), "Food", "Alice", "Engineering"),
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e3", core.KindExpense, 200, core.NewDate(2023, 12, 31), "Food", "Alice", "Engineering"),
	}

	buckets := GroupSumByMonth(txs)
	want := []string{"2023-12", "2024-01", "2024-02"}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(buckets))
	}
	for i, key := range want {
		if buckets[i].Key != key {
			t.Fatalf("position %d: expected %s, got %s", i, key, buckets[i].Key)
		}
	}
}

func TestGroupSumByMonthOmitsEmptyMonths(t *testing.T) {
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 500, core.NewDate(2024, 4, 5), "Food", "Alice", "Engineering"),
	}

	buckets := GroupSumByMonth(txs)
	if len(buckets) != 2 {
		t.Fatalf("gap months must not be synthesized, got %d buckets", len(buckets))
	}
}

func TestZeroFillYear(t *testing.T) {
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 3, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 500, core.NewDate(2023, 12, 5), "Food", "Alice", "Engineering"),
	}

	filled := ZeroFillYear(GroupSumByMonth(txs), 2024)
	if len(filled) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(filled))
	}
	if filled[0].Key != "2024-01" || filled[0].Total.Cents != 0 {
		t.Fatalf("January must be zero-filled, got %+v", filled[0])
	}
	if filled[2].Total.Cents != 1000 {
		t.Fatalf("March must keep its total, got %+v", filled[2])
	}
	for _, b := range filled {
		if b.Key == "2023-12" {
			t.Fatalf("buckets outside the year must be dropped")
		}
	}
}

func TestGroupSumEmptyInput(t *testing.T) {
	if got := GroupSum(nil, ByCategory); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	if got := GroupSumByMonth(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

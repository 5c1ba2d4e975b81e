package analytics

import (
	"sort"

	"tally/internal/core"
)

// Bucket is a grouped accumulation keyed by one dimension: category,
// month label, user, or department. TxIDs trace which transactions
// contributed; they are kept for auditability, not display.
type Bucket struct {
	Key   string     `json:"key"`
	Total core.Money `json:"total"`
	Count int        `json:"count"`
	TxIDs []string   `json:"txIds,omitempty"`
}

// Key extractors for GroupSum.
var (
	ByCategory   = func(tx core.Transaction) string { return tx.Category }
	ByUser       = func(tx core.Transaction) string { return tx.User }
	ByDepartment = func(tx core.Transaction) string { return tx.Department }
)

// GroupSum accumulates totals per key. Buckets appear in first-seen
// order of their keys, which keeps chart labels stable across runs
// with identical input. All accumulation is integer cents.
func GroupSum(txs []core.Transaction, keyFn func(core.Transaction) string) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, tx := range txs {
		key := keyFn(tx)
		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[i].Total = buckets[i].Total.Add(tx.Amount)
		buckets[i].Count++
		buckets[i].TxIDs = append(buckets[i].TxIDs, tx.ID)
	}
	return buckets
}

// GroupSumByMonth buckets by calendar month, ordered chronologically.
// Months with no transactions are not synthesized; see ZeroFillYear
// for explicit zero-filling when a fixed-width series is needed.
func GroupSumByMonth(txs []core.Transaction) []Bucket {
	buckets := GroupSum(txs, func(tx core.Transaction) string {
		return tx.OccurredOn.MonthKey()
	})
	// "YYYY-MM" keys sort chronologically as plain strings.
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// ZeroFillYear expands a monthly series to all twelve months of the
// given year, inserting empty buckets where no transactions occurred.
// Buckets outside the year are dropped. This is an explicit opt-in for
// consumers that need a fixed-width series.
func ZeroFillYear(monthly []Bucket, year int) []Bucket {
	byKey := make(map[string]Bucket, len(monthly))
	for _, b := range monthly {
		byKey[b.Key] = b
	}
	out := make([]Bucket, 0, 12)
	for month := 1; month <= 12; month++ {
		key := core.NewDate(year, month, 1).MonthKey()
		if b, ok := byKey[key]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, Bucket{Key: key})
	}
	return out
}

package analytics

import (
	"sort"
	"time"

	"tally/internal/core"
)

const (
	BadgeGold   Badge = "gold"
	BadgeSilver Badge = "silver"
	BadgeBronze Badge = "bronze"
	BadgeNone   Badge = "none"

	// Efficiency scale factors: cents of average transaction size per
	// point of score deduction. Tunable heuristics, not financial law;
	// departments aggregate many people so their scale is wider.
	userEfficiencyScale       = 1000
	departmentEfficiencyScale = 5000
)

type (
	// Badge is a display hint derived from rank, not part of the
	// entity's identity.
	Badge string

	// RankedEntity is one row of a leaderboard.
	RankedEntity struct {
		Name          string     `json:"name"`
		Total         core.Money `json:"total"`
		Count         int        `json:"count"`
		GrowthPercent float64    `json:"growthPercent"`
		Efficiency    float64    `json:"efficiency"`
		Rank          int        `json:"rank"`
		Badge         Badge      `json:"badge"`
	}
)

// RankUsers orders users by accumulated amount, descending.
func RankUsers(txs []core.Transaction, now time.Time) []RankedEntity {
	return rank(txs, ByUser, userEfficiencyScale, now)
}

// RankDepartments orders departments by accumulated amount, descending.
func RankDepartments(txs []core.Transaction, now time.Time) []RankedEntity {
	return rank(txs, ByDepartment, departmentEfficiencyScale, now)
}

// rank groups by the key function, then sorts by amount descending
// with entity name ascending as tie-break, giving a total order and
// reproducible ranks across runs. Ranks are dense and 1-based; ties do
// not share a rank. Per-entity trend reuses the month-over-month
// calculator on the entity's own transactions.
func rank(txs []core.Transaction, keyFn func(core.Transaction) string, scale int64, now time.Time) []RankedEntity {
	buckets := GroupSum(txs, keyFn)

	perEntity := make(map[string][]core.Transaction, len(buckets))
	for _, tx := range txs {
		key := keyFn(tx)
		perEntity[key] = append(perEntity[key], tx)
	}

	entities := make([]RankedEntity, 0, len(buckets))
	for _, b := range buckets {
		entities = append(entities, RankedEntity{
			Name:          b.Key,
			Total:         b.Total,
			Count:         b.Count,
			GrowthPercent: MonthOverMonth(perEntity[b.Key], now).GrowthPercent,
			Efficiency:    efficiencyScore(b.Total, b.Count, scale),
		})
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Total.Cents != entities[j].Total.Cents {
			return entities[i].Total.Cents > entities[j].Total.Cents
		}
		return entities[i].Name < entities[j].Name
	})

	for i := range entities {
		entities[i].Rank = i + 1
		entities[i].Badge = badgeFor(i + 1)
	}
	return entities
}

// efficiencyScore is a bounded [0,100] heuristic inversely related to
// average transaction size: smaller average spend scores higher.
func efficiencyScore(total core.Money, count int, scale int64) float64 {
	if count == 0 {
		return 100
	}
	avg := float64(total.Cents) / float64(count)
	score := 100 - avg/float64(scale)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func badgeFor(rank int) Badge {
	switch rank {
	case 1:
		return BadgeGold
	case 2:
		return BadgeSilver
	case 3:
		return BadgeBronze
	default:
		return BadgeNone
	}
}

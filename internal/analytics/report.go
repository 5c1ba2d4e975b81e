package analytics

import (
	"time"

	"tally/internal/core"
)

type (
	// Summary is the financial overview of the filtered set.
	Summary struct {
		TotalExpense core.Money `json:"totalExpense"`
		TotalIncome  core.Money `json:"totalIncome"`
		Net          core.Money `json:"net"`

		// Averages divide the expense total by the number of calendar
		// months present in the filtered set.
		MonthlyExpense   core.Money `json:"monthlyExpense"`
		QuarterlyExpense core.Money `json:"quarterlyExpense"`

		ProfitMarginPercent float64    `json:"profitMarginPercent"`
		AvgTransaction      core.Money `json:"avgTransaction"`
	}

	// YearComparison labels the year-over-year trend with the two
	// calendar years it compares.
	YearComparison struct {
		CurrentYear  int `json:"currentYear"`
		PreviousYear int `json:"previousYear"`
		PeriodComparison
	}

	// Quality measures how much of the filtered set is fully
	// attributed, as percentages of the filtered count.
	Quality struct {
		// Completeness: transactions with a non-empty description.
		CompletenessPercent float64 `json:"completenessPercent"`
		// Accuracy: transactions with a resolved, non-Unknown category.
		AccuracyPercent float64 `json:"accuracyPercent"`
		// Consistency: transactions with a resolved, non-Unknown user.
		ConsistencyPercent float64 `json:"consistencyPercent"`
	}

	// Report bundles everything a consumer needs to render the
	// analytics view. It is ephemeral: recomputed per request and
	// never mutated after return.
	Report struct {
		GeneratedAt   time.Time `json:"generatedAt"`
		FilteredCount int       `json:"filteredCount"`

		Summary Summary `json:"summary"`

		ByCategory []Bucket `json:"byCategory"`
		Monthly    []Bucket `json:"monthly"`

		MonthTrend   PeriodComparison `json:"monthTrend"`
		YearOverYear YearComparison   `json:"yearOverYear"`

		UserRanking       []RankedEntity `json:"userRanking"`
		DepartmentRanking []RankedEntity `json:"departmentRanking"`

		Quality Quality `json:"quality"`

		// Transactions carries the filtered rows for CSV export.
		Transactions []core.Transaction `json:"transactions"`
	}
)

// BuildReport is the single entry point for consumers: it validates
// the spec, filters the transaction set, and derives every view in one
// pass. It is read-only and side-effect free. Zero matching
// transactions is not an error; the result is a valid report with
// all-zero aggregates and empty chart datasets.
func BuildReport(txs []core.Transaction, spec FilterSpec, now time.Time) (*Report, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	filtered := Apply(txs, spec)
	monthly := GroupSumByMonth(filtered)

	yoy := YearOverYear(filtered, now)

	return &Report{
		GeneratedAt:   now,
		FilteredCount: len(filtered),
		Summary:       buildSummary(filtered, len(monthly)),
		ByCategory:    GroupSum(filtered, ByCategory),
		Monthly:       monthly,
		MonthTrend:    MonthOverMonth(filtered, now),
		YearOverYear: YearComparison{
			CurrentYear:      now.Year(),
			PreviousYear:     now.Year() - 1,
			PeriodComparison: yoy,
		},
		UserRanking:       RankUsers(filtered, now),
		DepartmentRanking: RankDepartments(filtered, now),
		Quality:           buildQuality(filtered),
		Transactions:      filtered,
	}, nil
}

func buildSummary(txs []core.Transaction, elapsedMonths int) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Kind {
		case core.KindExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		case core.KindIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		}
	}
	s.Net = core.Money{Cents: s.TotalIncome.Cents - s.TotalExpense.Cents}

	if elapsedMonths > 0 {
		s.MonthlyExpense = core.Money{Cents: s.TotalExpense.Cents / int64(elapsedMonths)}
		s.QuarterlyExpense = core.Money{Cents: s.MonthlyExpense.Cents * 3}
	}

	if s.TotalIncome.Cents > 0 {
		s.ProfitMarginPercent = float64(s.Net.Cents) / float64(s.TotalIncome.Cents) * 100
	}

	if len(txs) > 0 {
		volume := s.TotalExpense.Cents + s.TotalIncome.Cents
		s.AvgTransaction = core.Money{Cents: volume / int64(len(txs))}
	}
	return s
}

func buildQuality(txs []core.Transaction) Quality {
	if len(txs) == 0 {
		return Quality{}
	}
	var described, categorized, attributed int
	for _, tx := range txs {
		if tx.Description != "" {
			described++
		}
		if tx.Category != core.UnknownName {
			categorized++
		}
		if tx.User != core.UnknownName {
			attributed++
		}
	}
	pct := func(n int) float64 { return float64(n) / float64(len(txs)) * 100 }
	return Quality{
		CompletenessPercent: pct(described),
		AccuracyPercent:     pct(categorized),
		ConsistencyPercent:  pct(attributed),
	}
}

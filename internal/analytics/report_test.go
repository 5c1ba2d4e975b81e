package analytics

import (
	"errors"
	"testing"
	"time"

	"tally/internal/core"
)

// The canonical scenario: two food expenses and one salary income.
func scenarioSet() []core.Transaction {
	return []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 500, core.NewDate(2024, 2, 5), "Food", "Alice", "Engineering"),
		tx("i1", core.KindIncome, 3000, core.NewDate(2024, 1, 10), "Salary", "Alice", "Engineering"),
	}
}

func TestBuildReportScenario(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := BuildReport(scenarioSet(), FilterSpec{}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.FilteredCount != 3 {
		t.Fatalf("expected 3 filtered transactions, got %d", report.FilteredCount)
	}
	if report.Summary.TotalExpense.Cents != 1500 {
		t.Fatalf("expected totalExpense 1500, got %d", report.Summary.TotalExpense.Cents)
	}
	if report.Summary.TotalIncome.Cents != 3000 {
		t.Fatalf("expected totalIncome 3000, got %d", report.Summary.TotalIncome.Cents)
	}
	if report.Summary.ProfitMarginPercent != 50 {
		t.Fatalf("expected 50%% profit margin, got %v", report.Summary.ProfitMarginPercent)
	}

	var food *Bucket
	for i := range report.ByCategory {
		if report.ByCategory[i].Key == "Food" {
			food = &report.ByCategory[i]
		}
	}
	if food == nil || food.Total.Cents != 1500 {
		t.Fatalf("expected Food bucket 1500, got %+v", report.ByCategory)
	}
}

func TestBuildReportMonthlySeriesForExpenseKind(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := BuildReport(scenarioSet(), FilterSpec{Kind: core.KindExpense}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Monthly) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %+v", report.Monthly)
	}
	if report.Monthly[0].Key != "2024-01" || report.Monthly[0].Total.Cents != 1000 {
		t.Fatalf("expected January 1000, got %+v", report.Monthly[0])
	}
	if report.Monthly[1].Key != "2024-02" || report.Monthly[1].Total.Cents != 500 {
		t.Fatalf("expected February 500, got %+v", report.Monthly[1])
	}
}

func TestBuildReportInvalidRangeFailsFast(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	spec := FilterSpec{MinAmount: moneyPtr(2000), MaxAmount: moneyPtr(1000)}

	report, err := BuildReport(scenarioSet(), spec, now)
	if !errors.Is(err, core.ErrInvalidFilterRange) {
		t.Fatalf("expected ErrInvalidFilterRange, got %v", err)
	}
	if report != nil {
		t.Fatalf("no partial report on invalid spec, got %+v", report)
	}
}

func TestBuildReportEmptyInputIsNotAnError(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := BuildReport(nil, FilterSpec{}, now)
	if err != nil {
		t.Fatalf("zero transactions must yield a valid report, got %v", err)
	}
	if report.FilteredCount != 0 || report.Summary.TotalExpense.Cents != 0 {
		t.Fatalf("expected all-zero aggregates, got %+v", report.Summary)
	}
	if len(report.ByCategory) != 0 || len(report.Monthly) != 0 {
		t.Fatalf("expected empty chart datasets")
	}
	if len(report.UserRanking) != 0 || len(report.DepartmentRanking) != 0 {
		t.Fatalf("expected empty rankings")
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	spec := FilterSpec{Categories: []string{"Food", "Salary"}}
	txs := scenarioSet()

	first, err := BuildReport(txs, spec, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildReport(txs, spec, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := Serialize(first, FormatJSON)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	b, err := Serialize(second, FormatJSON)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if a != b {
		t.Fatalf("same snapshot and spec must yield byte-identical reports")
	}
}

func TestBuildReportConservation(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	specs := []FilterSpec{
		{},
		{Kind: core.KindExpense},
		{Users: []string{"Alice"}},
		{From: datePtr(core.NewDate(2024, 1, 1)), To: datePtr(core.NewDate(2024, 1, 31))},
	}

	for i, spec := range specs {
		report, err := BuildReport(scenarioSet(), spec, now)
		if err != nil {
			t.Fatalf("spec %d: %v", i, err)
		}
		var expense, income int64
		for _, tx := range report.Transactions {
			if tx.Kind == core.KindExpense {
				expense += tx.Amount.Cents
			} else {
				income += tx.Amount.Cents
			}
		}
		if expense != report.Summary.TotalExpense.Cents || income != report.Summary.TotalIncome.Cents {
			t.Fatalf("spec %d: summary totals must match the filtered rows", i)
		}
	}
}

func TestBuildReportQuality(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("e1", core.KindExpense, 100, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 100, core.NewDate(2024, 1, 6), core.UnknownName, core.UnknownName, core.UnknownName),
	}
	txs[0].Description = "lunch"

	report, err := BuildReport(txs, FilterSpec{}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := report.Quality
	if q.CompletenessPercent != 50 || q.AccuracyPercent != 50 || q.ConsistencyPercent != 50 {
		t.Fatalf("expected 50/50/50, got %+v", q)
	}
}

func TestBuildReportAverages(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := BuildReport(scenarioSet(), FilterSpec{}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two distinct months in the set: 1500 / 2.
	if report.Summary.MonthlyExpense.Cents != 750 {
		t.Fatalf("expected monthly expense 750, got %d", report.Summary.MonthlyExpense.Cents)
	}
	if report.Summary.QuarterlyExpense.Cents != 2250 {
		t.Fatalf("expected quarterly expense 2250, got %d", report.Summary.QuarterlyExpense.Cents)
	}
	// (1500 + 3000) / 3 transactions.
	if report.Summary.AvgTransaction.Cents != 1500 {
		t.Fatalf("expected avg transaction 1500, got %d", report.Summary.AvgTransaction.Cents)
	}
}

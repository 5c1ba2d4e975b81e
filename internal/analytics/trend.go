package analytics

import (
	"time"

	"tally/internal/core"
)

// PeriodComparison holds one metric measured over two comparable
// windows and the growth between them.
type PeriodComparison struct {
	Current       core.Money `json:"current"`
	Previous      core.Money `json:"previous"`
	GrowthPercent float64    `json:"growthPercent"`
}

// Window is an inclusive date range used for trend computation.
type Window struct {
	From core.Date
	To   core.Date
}

// GrowthPercent computes period-over-period growth. When the previous
// period is zero the result is defined as exactly 0, not infinity:
// a deliberate simplification that keeps chart rendering well-defined.
func GrowthPercent(current, previous core.Money) float64 {
	if previous.Cents <= 0 {
		return 0
	}
	return float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
}

// PeriodOverPeriod sums the transaction amounts falling inside each
// window and compares them.
func PeriodOverPeriod(txs []core.Transaction, current, previous Window) PeriodComparison {
	cur := sumWindow(txs, current)
	prev := sumWindow(txs, previous)
	return PeriodComparison{
		Current:       cur,
		Previous:      prev,
		GrowthPercent: GrowthPercent(cur, prev),
	}
}

// MonthOverMonth compares the calendar month containing now against
// the month before it. The windows are wall-clock relative, not
// derived from any active filter range: the trend answers "how is this
// month going versus last", independent of report scope.
func MonthOverMonth(txs []core.Transaction, now time.Time) PeriodComparison {
	return PeriodOverPeriod(txs, monthWindow(now.Year(), int(now.Month())), previousMonthWindow(now))
}

// YearOverYear compares the calendar year containing now against the
// immediately preceding year, summed across all months present.
func YearOverYear(txs []core.Transaction, now time.Time) PeriodComparison {
	year := now.Year()
	return PeriodOverPeriod(txs, yearWindow(year), yearWindow(year-1))
}

func sumWindow(txs []core.Transaction, w Window) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.OccurredOn.Before(w.From) || tx.OccurredOn.After(w.To) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

func monthWindow(year, month int) Window {
	first := core.NewDate(year, month, 1)
	last := core.DateOf(first.AddDate(0, 1, -1))
	return Window{From: first, To: last}
}

func previousMonthWindow(now time.Time) Window {
	year, month := now.Year(), int(now.Month())
	month--
	if month < 1 {
		month = 12
		year--
	}
	return monthWindow(year, month)
}

func yearWindow(year int) Window {
	return Window{From: core.NewDate(year, 1, 1), To: core.NewDate(year, 12, 31)}
}

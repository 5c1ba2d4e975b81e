package analytics

import (
	"errors"
	"testing"

	"tally/internal/core"
)

func tx(id string, kind core.Kind, cents int64, d core.Date, category, user, dept string) core.Transaction {
	return core.Transaction{
		ID: id, Kind: kind, Amount: core.Money{Cents: cents}, OccurredOn: d,
		Category: category, User: user, Department: dept,
	}
}

func sampleSet() []core.Transaction {
	return []core.Transaction{
		tx("e1", core.KindExpense, 1000, core.NewDate(2024, 1, 5), "Food", "Alice", "Engineering"),
		tx("e2", core.KindExpense, 500, core.NewDate(2024, 2, 5), "Food", "Bob", "Sales"),
		tx("e3", core.KindExpense, 2500, core.NewDate(2024, 2, 20), "Travel", "Alice", "Engineering"),
		tx("i1", core.KindIncome, 3000, core.NewDate(2024, 1, 10), "Salary", "Alice", "Engineering"),
	}
}

func datePtr(d core.Date) *core.Date { return &d }

func moneyPtr(cents int64) *core.Money { return &core.Money{Cents: cents} }

func TestApplyEmptySpecMatchesAll(t *testing.T) {
	txs := sampleSet()
	got := Apply(txs, FilterSpec{})
	if len(got) != len(txs) {
		t.Fatalf("empty spec must match everything, got %d of %d", len(got), len(txs))
	}
}

func TestApplyAxes(t *testing.T) {
	txs := sampleSet()

	cases := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{
			name: "date range inclusive at both bounds",
			spec: FilterSpec{From: datePtr(core.NewDate(2024, 1, 5)), To: datePtr(core.NewDate(2024, 2, 5))},
			want: []string{"e1", "e2", "i1"},
		},
		{
			name: "kind expense",
			spec: FilterSpec{Kind: core.KindExpense},
			want: []string{"e1", "e2", "e3"},
		},
		{
			name: "category allow list ORs values",
			spec: FilterSpec{Categories: []string{"Food", "Salary"}},
			want: []string{"e1", "e2", "i1"},
		},
		{
			name: "user axis",
			spec: FilterSpec{Users: []string{"Bob"}},
			want: []string{"e2"},
		},
		{
			name: "department axis",
			spec: FilterSpec{Departments: []string{"Engineering"}},
			want: []string{"e1", "e3", "i1"},
		},
		{
			name: "amount range inclusive",
			spec: FilterSpec{MinAmount: moneyPtr(500), MaxAmount: moneyPtr(1000)},
			want: []string{"e1", "e2"},
		},
		{
			name: "axes AND together",
			spec: FilterSpec{Kind: core.KindExpense, Users: []string{"Alice"}, MaxAmount: moneyPtr(1000)},
			want: []string{"e1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(txs, tc.spec)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %+v", tc.want, got)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestApplyNeverMutatesInput(t *testing.T) {
	txs := sampleSet()
	before := append([]core.Transaction(nil), txs...)
	_ = Apply(txs, FilterSpec{Kind: core.KindIncome})
	for i := range txs {
		if txs[i] != before[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestFilterMonotonicity(t *testing.T) {
	txs := sampleSet()

	narrow := FilterSpec{Categories: []string{"Food"}}
	wide := FilterSpec{Categories: []string{"Food", "Travel"}}

	n := len(Apply(txs, narrow))
	w := len(Apply(txs, wide))
	if n > w {
		t.Fatalf("widening an axis must never shrink the result: %d > %d", n, w)
	}
	if w > len(txs) {
		t.Fatalf("filtered set larger than input")
	}
}

func TestValidateRejectsInvertedRanges(t *testing.T) {
	cases := []FilterSpec{
		{MinAmount: moneyPtr(2000), MaxAmount: moneyPtr(1000)},
		{From: datePtr(core.NewDate(2024, 3, 1)), To: datePtr(core.NewDate(2024, 1, 1))},
	}
	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidFilterRange) {
			t.Fatalf("case %d: expected ErrInvalidFilterRange, got %v", i, err)
		}
	}

	ok := FilterSpec{MinAmount: moneyPtr(1000), MaxAmount: moneyPtr(1000)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("equal bounds are valid, got %v", err)
	}
}

func TestCacheKeyCanonical(t *testing.T) {
	a := FilterSpec{Categories: []string{"Food", "Travel"}, Kind: core.KindExpense}
	b := FilterSpec{Categories: []string{"Travel", "Food"}, Kind: core.KindExpense}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("logically equal specs must share a cache key")
	}
	c := FilterSpec{Categories: []string{"Food"}}
	if a.CacheKey() == c.CacheKey() {
		t.Fatalf("different specs must not collide")
	}
}

package analytics

import (
	"sort"
	"strconv"
	"strings"

	"tally/internal/core"
)

// FilterSpec restricts which transactions participate in a report.
// Axes combine with logical AND; values inside a multi-value axis
// combine with OR. A nil or empty field leaves that axis unrestricted,
// so the zero FilterSpec matches everything.
type FilterSpec struct {
	From *core.Date
	To   *core.Date

	// Kind narrows to one direction; empty means both.
	Kind core.Kind

	Categories  []string
	Users       []string
	Departments []string

	MinAmount *core.Money
	MaxAmount *core.Money
}

// Validate rejects inverted ranges before any aggregation runs. A bad
// range indicates caller misuse and fails the whole request; there is
// no partial report.
func (s FilterSpec) Validate() error {
	if s.MinAmount != nil && s.MaxAmount != nil && s.MinAmount.Cents > s.MaxAmount.Cents {
		return core.ErrInvalidFilterRange
	}
	if s.From != nil && s.To != nil && s.From.After(*s.To) {
		return core.ErrInvalidFilterRange
	}
	if s.Kind != "" && !s.Kind.Valid() {
		return core.ErrKindInvalid
	}
	return nil
}

// Apply returns the transactions matching the spec, in input order.
// The input slice is never mutated. Axes are evaluated in a fixed
// order (date, kind, category, user, department, amount); the order
// does not change the result but keeps short-circuiting deterministic.
func Apply(txs []core.Transaction, spec FilterSpec) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if spec.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func (s FilterSpec) matches(tx core.Transaction) bool {
	// Date bounds are inclusive on both ends.
	if s.From != nil && tx.OccurredOn.Before(*s.From) {
		return false
	}
	if s.To != nil && tx.OccurredOn.After(*s.To) {
		return false
	}
	if s.Kind != "" && tx.Kind != s.Kind {
		return false
	}
	if !allowed(s.Categories, tx.Category) {
		return false
	}
	if !allowed(s.Users, tx.User) {
		return false
	}
	if !allowed(s.Departments, tx.Department) {
		return false
	}
	if s.MinAmount != nil && tx.Amount.Cents < s.MinAmount.Cents {
		return false
	}
	if s.MaxAmount != nil && tx.Amount.Cents > s.MaxAmount.Cents {
		return false
	}
	return true
}

// allowed treats an empty allow-list as "no restriction": no explicit
// selection in the UI means show all, not show nothing.
func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// CacheKey renders the spec as a canonical string, usable as a report
// cache key. Allow-lists are sorted so logically equal specs produce
// the same key.
func (s FilterSpec) CacheKey() string {
	var b strings.Builder
	writeDate := func(d *core.Date) {
		if d != nil {
			b.WriteString(d.Format("2006-01-02"))
		}
	}
	writeList := func(list []string) {
		sorted := append([]string(nil), list...)
		sort.Strings(sorted)
		b.WriteString(strings.Join(sorted, ","))
	}

	writeDate(s.From)
	b.WriteByte('|')
	writeDate(s.To)
	b.WriteByte('|')
	b.WriteString(string(s.Kind))
	b.WriteByte('|')
	writeList(s.Categories)
	b.WriteByte('|')
	writeList(s.Users)
	b.WriteByte('|')
	writeList(s.Departments)
	b.WriteByte('|')
	if s.MinAmount != nil {
		b.WriteString(strconv.FormatInt(s.MinAmount.Cents, 10))
	}
	b.WriteByte('|')
	if s.MaxAmount != nil {
		b.WriteString(strconv.FormatInt(s.MaxAmount.Cents, 10))
	}
	return b.String()
}

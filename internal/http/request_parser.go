package http

import (
	"net/url"
	"strings"

	"tally/internal/analytics"
	"tally/internal/core"
)

// parseFilterSpec reads filter axes from query parameters. List axes
// repeat the parameter (?category=Food&category=Travel). Unparseable
// dates and amounts are treated as unset; an unknown kind is kept so
// validation rejects it instead of silently widening the filter.
func parseFilterSpec(q url.Values) analytics.FilterSpec {
	var spec analytics.FilterSpec

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			spec.From = &d
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			spec.To = &d
		}
	}

	if v := strings.TrimSpace(q.Get("kind")); v != "" {
		if kind, err := core.ParseKind(v); err == nil {
			spec.Kind = kind
		} else {
			spec.Kind = core.Kind(v)
		}
	}

	spec.Categories = listParam(q, "category")
	spec.Users = listParam(q, "user")
	spec.Departments = listParam(q, "department")

	if v := strings.TrimSpace(q.Get("min_amount")); v != "" {
		if cents, err := core.ParseDecimalToCents(v); err == nil {
			spec.MinAmount = &core.Money{Cents: cents}
		}
	}
	if v := strings.TrimSpace(q.Get("max_amount")); v != "" {
		if cents, err := core.ParseDecimalToCents(v); err == nil {
			spec.MaxAmount = &core.Money{Cents: cents}
		}
	}

	return spec
}

func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// Package analytics turns a raw collection of income and expense
// records into filtered views, grouped summaries, time-windowed growth
// figures, and ranked leaderboards. All computation is pure and
// in-memory; the package never touches storage or the network.
package analytics

import (
	"log/slog"

	"tally/internal/core"
)

// CategoryIndex builds an id-keyed lookup from a category listing.
func CategoryIndex(categories []core.Category) map[string]core.Category {
	idx := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// UserIndex builds an id-keyed lookup from a user listing.
func UserIndex(users []core.User) map[string]core.User {
	idx := make(map[string]core.User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}

// Normalize maps stored expense and income rows to the unified
// Transaction shape, resolving category and user references through
// the supplied indexes. Missing references resolve to the Unknown
// sentinel rather than failing: incomplete data must not block
// reporting. Rows that fail validation are skipped and logged, never
// fatal to the whole set.
func Normalize(expenses []core.ExpenseRecord, incomes []core.IncomeRecord,
	categories map[string]core.Category, users map[string]core.User) []core.Transaction {

	out := make([]core.Transaction, 0, len(expenses)+len(incomes))

	for _, e := range expenses {
		tx := core.Transaction{
			ID:          e.ID,
			Kind:        core.KindExpense,
			Amount:      e.Amount,
			OccurredOn:  e.OccurredOn,
			Description: e.Description,
		}
		resolveRefs(&tx, e.CategoryID, e.UserID, categories, users)
		if err := tx.Validate(); err != nil {
			slog.Warn("Skipping malformed expense record", "id", e.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}

	for _, i := range incomes {
		tx := core.Transaction{
			ID:          i.ID,
			Kind:        core.KindIncome,
			Amount:      i.Amount,
			OccurredOn:  i.OccurredOn,
			Description: i.Description,
		}
		resolveRefs(&tx, i.CategoryID, i.UserID, categories, users)
		if err := tx.Validate(); err != nil {
			slog.Warn("Skipping malformed income record", "id", i.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}

	return out
}

func resolveRefs(tx *core.Transaction, categoryID, userID string,
	categories map[string]core.Category, users map[string]core.User) {

	tx.Category = core.UnknownName
	if c, ok := categories[categoryID]; ok && c.Name != "" {
		tx.Category = c.Name
	}

	tx.User = core.UnknownName
	tx.Department = core.UnknownName
	if u, ok := users[userID]; ok {
		if u.Name != "" {
			tx.User = u.Name
		}
		if u.Department != "" {
			tx.Department = u.Department
		}
	}
}

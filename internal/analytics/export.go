package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tally/internal/core"
)

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Format selects an export serialization.
type Format string

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a caller-supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension for exported artifacts.
func (f Format) Extension() string {
	return string(f)
}

// Serialize renders a report for export. JSON is the full structural
// dump; CSV is a flat listing of the filtered transactions only,
// ignoring aggregates, so the file opens cleanly in spreadsheet tools.
func Serialize(r *Report, format Format) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal report: %w", err)
		}
		return string(b), nil
	case FormatCSV:
		return serializeCSV(r.Transactions), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// serializeCSV writes one unquoted row per transaction. Values are not
// quoted; callers needing round-trip fidelity must keep commas out of
// category, user, and department names.
func serializeCSV(txs []core.Transaction) string {
	var b strings.Builder
	b.WriteString("Date,Type,Amount,Category,User,Department\n")
	for _, tx := range txs {
		b.WriteString(tx.OccurredOn.Format("2006-01-02"))
		b.WriteByte(',')
		b.WriteString(string(tx.Kind))
		b.WriteByte(',')
		b.WriteString(tx.Amount.Decimal())
		b.WriteByte(',')
		b.WriteString(tx.Category)
		b.WriteByte(',')
		b.WriteString(tx.User)
		b.WriteByte(',')
		b.WriteString(tx.Department)
		b.WriteByte('\n')
	}
	return b.String()
}

// CSVRows returns the export rows as string slices, header first.
// Sinks that take cell values directly (spreadsheets) use this instead
// of re-parsing the serialized form.
func CSVRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Transactions)+1)
	rows = append(rows, []string{"Date", "Type", "Amount", "Category", "User", "Department"})
	for _, tx := range r.Transactions {
		rows = append(rows, []string{
			tx.OccurredOn.Format("2006-01-02"),
			string(tx.Kind),
			tx.Amount.Decimal(),
			tx.Category,
			tx.User,
			tx.Department,
		})
	}
	return rows
}

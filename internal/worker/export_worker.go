// Package worker runs export jobs picked up from the AMQP queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/amqp"
	"tally/internal/analytics"
	"tally/internal/store"
)

// SheetsSink receives finished exports. Optional; nil disables the
// spreadsheet copy.
type SheetsSink interface {
	AppendReport(ctx context.Context, jobID string, report *analytics.Report) error
}

// ExportWorker builds filtered reports and writes them to the export
// directory. Each job takes a fresh store snapshot so long queue waits
// still export current data.
type ExportWorker struct {
	source    store.RecordSource
	sink      SheetsSink
	exportDir string
	now       func() time.Time
}

func NewExportWorker(source store.RecordSource, sink SheetsSink, exportDir string) *ExportWorker {
	return &ExportWorker{
		source:    source,
		sink:      sink,
		exportDir: exportDir,
		now:       time.Now,
	}
}

// HandleExportRequest processes a single export job.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"job_id", msg.JobID,
		"format", msg.Format)

	snap, err := store.TakeSnapshot(ctx, w.source)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}

	txs := analytics.Normalize(snap.Expenses, snap.Income,
		analytics.CategoryIndex(snap.Categories), analytics.UserIndex(snap.Users))

	report, err := analytics.BuildReport(txs, msg.Filter, w.now())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	out, err := analytics.Serialize(report, msg.Format)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}

	path, err := w.writeFile(msg.JobID, msg.Format, out)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Export written",
		"job_id", msg.JobID,
		"path", path,
		"transactions", report.FilteredCount)

	if w.sink != nil && msg.Format == analytics.FormatCSV {
		if err := w.sink.AppendReport(ctx, msg.JobID, report); err != nil {
			// The file on disk is the deliverable; the spreadsheet
			// copy is best effort.
			slog.WarnContext(ctx, "Spreadsheet append failed",
				"job_id", msg.JobID,
				"error", err)
		}
	}

	return nil
}

func (w *ExportWorker) writeFile(jobID string, format analytics.Format, content string) (string, error) {
	if err := os.MkdirAll(w.exportDir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(w.exportDir, jobID+"."+format.Extension())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"tally/internal/amqp"
	"tally/internal/analytics"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/store"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	spec := parseFilterSpec(r.URL.Query())
	report, err := s.buildReport(r.Context(), spec)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleExport serves synchronous downloads on GET and queues
// asynchronous jobs on POST.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleExportDownload(w, r)
	case http.MethodPost:
		s.handleExportEnqueue(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	format, err := exportFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := parseFilterSpec(r.URL.Query())
	report, err := s.buildReport(r.Context(), spec)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}

	out, err := analytics.Serialize(report, format)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Serialize export failed",
			log.FieldFormat, format, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	switch format {
	case analytics.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="report.`+format.Extension()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

type exportQueuedResponse struct {
	JobID  string           `json:"job_id"`
	Format analytics.Format `json:"format"`
	Status string           `json:"status"`
}

func (s *Server) handleExportEnqueue(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "async export is not configured")
		return
	}

	format, err := exportFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := parseFilterSpec(r.URL.Query())
	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID := uuid.NewString()
	msg := amqp.NewExportRequestMessage(jobID, format, spec)
	if err := s.publisher.PublishExportRequest(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Publish export request failed",
			log.FieldJobID, jobID, log.FieldError, err)
		writeError(w, http.StatusBadGateway, "failed to queue export")
		return
	}

	writeJSON(w, http.StatusAccepted, exportQueuedResponse{
		JobID:  jobID,
		Format: format,
		Status: "queued",
	})
}

func exportFormat(r *http.Request) (analytics.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return analytics.FormatJSON, nil
	}
	return analytics.ParseFormat(raw)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	spec := parseFilterSpec(r.URL.Query())
	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := store.TakeSnapshot(r.Context(), s.store)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Snapshot failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	txs := analytics.Normalize(snap.Expenses, snap.Income,
		analytics.CategoryIndex(snap.Categories), analytics.UserIndex(snap.Users))
	filtered := analytics.Apply(txs, spec)

	writeJSON(w, http.StatusOK, struct {
		Count        int                `json:"count"`
		Transactions []core.Transaction `json:"transactions"`
	}{Count: len(filtered), Transactions: filtered})
}

type createRecordRequest struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	CategoryID  string `json:"category_id"`
	UserID      string `json:"user_id"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description,omitempty"`
}

type createRecordResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCreateRequest(w, r)
	if !ok {
		return
	}

	record := core.ExpenseRecord{
		OccurredOn:  req.occurredOn,
		Amount:      req.amount,
		CategoryID:  sanitizeInput(req.CategoryID),
		UserID:      sanitizeInput(req.UserID),
		Description: sanitizeInput(req.Description),
	}
	if err := record.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateExpense(r.Context(), record)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create expense failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusCreated, createRecordResponse{ID: id})
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCreateRequest(w, r)
	if !ok {
		return
	}

	record := core.IncomeRecord{
		OccurredOn:  req.occurredOn,
		Amount:      req.amount,
		CategoryID:  sanitizeInput(req.CategoryID),
		UserID:      sanitizeInput(req.UserID),
		Source:      sanitizeInput(req.Source),
		Description: sanitizeInput(req.Description),
	}
	if err := record.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateIncome(r.Context(), record)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create income failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to save income")
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusCreated, createRecordResponse{ID: id})
}

type parsedCreateRequest struct {
	createRecordRequest
	amount     core.Money
	occurredOn core.Date
}

func (s *Server) decodeCreateRequest(w http.ResponseWriter, r *http.Request) (parsedCreateRequest, bool) {
	var parsed parsedCreateRequest

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return parsed, false
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return parsed, false
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return parsed, false
	}

	occurredOn, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return parsed, false
	}

	parsed.createRecordRequest = req
	parsed.amount = core.Money{Cents: cents}
	parsed.occurredOn = occurredOn
	return parsed, true
}

func (s *Server) respondReportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidFilterRange), errors.Is(err, core.ErrKindInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Report build failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
	}
}

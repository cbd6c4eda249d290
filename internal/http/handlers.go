package http

import (
	"bytes"
	"fmt"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/export"
)

// Transactions.

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Transactions())
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.svc.Transaction(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := ParseTransactionFields(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.svc.AddTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.events.LogTransactionCreated(r.Context(), tx.ID, tx.Type.String(), tx.Category, tx.Amount.String(), tx.Date)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := ParseTransactionFields(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.svc.UpdateTransaction(r.Context(), id, core.TransactionEdit(in))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.svc.DeleteTransaction(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDailyTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.DailyTransactions(DateParam(r.URL.Query(), s.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// Accounts.

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Accounts())
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	acc, err := s.svc.AddAccount(r.Context(), p.Get("name"), p.Get("balance"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.svc.DeleteAccount(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Categories.

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Categories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.AddCategory(r.Context(), p.Get("name")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.svc.Categories())
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.svc.RemoveCategory(r.Context(), r.PathValue("name"))
	w.WriteHeader(http.StatusNoContent)
}

// Settings.

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	next := s.svc.SaveSettings(r.Context(), p.Get("currency"), p.Get("language"), p.Get("startDay"))
	writeJSON(w, http.StatusOK, next)
}

// Reports.

// dailySummaryResponse pairs the raw totals with their rendering in the
// configured currency.
type dailySummaryResponse struct {
	core.DailySummary
	Positive  bool              `json:"positive"`
	Formatted map[string]string `json:"formatted"`
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.DailySummary(DateParam(r.URL.Query(), s.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailySummaryResponse{
		DailySummary: sum,
		Positive:     sum.Positive(),
		Formatted: map[string]string{
			"income":     s.svc.FormatCurrency(sum.Income),
			"expense":    s.svc.FormatCurrency(sum.Expense),
			"difference": s.svc.FormatCurrency(sum.Difference),
		},
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.MonthlyReport(MonthParam(r.URL.Query(), s.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ := core.Expense
	if v := q.Get("type"); v != "" {
		parsed, err := core.ParseTransactionType(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		typ = parsed
	}
	month := MonthParam(q, s.svc.Today())
	totals, err := s.svc.CategoryBreakdown(month, typ)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":  month,
		"type":   typ,
		"totals": totals,
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.Charts(MonthParam(r.URL.Query(), s.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// Data management.

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.Export(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(s.svc.Now())))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type transactionFormData struct {
	Predefined  []core.Category
	Custom      []core.Category
	Transaction core.Transaction
	Editing     bool
	Error       string
}

func (s *Server) handleAddTransactionPage(w http.ResponseWriter, r *http.Request) {
	s.renderTransactionForm(w, r, core.Transaction{}, false, "")
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	in, err := parseTransactionForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderTransactionForm(w, r, core.Transaction{}, false, err.Error())
		return
	}

	if _, err := s.transactions.Add(r.Context(), uid, in); err != nil {
		s.transactionWriteError(w, r, core.Transaction{}, false, err)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditTransactionPage(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	t, err := s.transactions.Get(r.Context(), uid, id)
	if errors.Is(err, core.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction load failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderTransactionForm(w, r, t, true, "")
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	in, err := parseTransactionForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderTransactionForm(w, r, core.Transaction{ID: id}, true, err.Error())
		return
	}

	if err := s.transactions.Update(r.Context(), uid, id, in); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.transactionWriteError(w, r, core.Transaction{ID: id}, true, err)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.transactions.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

// parseTransactionForm maps the entry form onto a service input. Validation
// beyond basic parsing stays in the service layer.
func parseTransactionForm(r *http.Request) (services.TransactionInput, error) {
	if err := r.ParseForm(); err != nil {
		return services.TransactionInput{}, errors.New("invalid form data")
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		return services.TransactionInput{}, errors.New("invalid amount")
	}

	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return services.TransactionInput{}, errors.New("invalid date")
	}

	return services.TransactionInput{
		Amount:         core.Money{Cents: cents},
		Date:           date,
		Description:    sanitizeInput(r.Form.Get("description")),
		Category:       sanitizeInput(r.Form.Get("category")),
		CustomCategory: sanitizeInput(r.Form.Get("custom_category")),
		CustomType:     core.TransactionType(r.Form.Get("custom_type")),
	}, nil
}

func (s *Server) renderTransactionForm(w http.ResponseWriter, r *http.Request, t core.Transaction, editing bool, formErr string) {
	predefined, custom, err := s.transactions.Categories(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "transaction_form.html", transactionFormData{
		Predefined:  predefined,
		Custom:      custom,
		Transaction: t,
		Editing:     editing,
		Error:       formErr,
	})
}

func (s *Server) transactionWriteError(w http.ResponseWriter, r *http.Request, t core.Transaction, editing bool, err error) {
	if isValidationError(err) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderTransactionForm(w, r, t, editing, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "Transaction write failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyCategory)
}

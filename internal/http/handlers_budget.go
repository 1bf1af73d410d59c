package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type budgetsPageData struct {
	Budgets    []services.BudgetUsage
	Predefined []core.Category
	Custom     []core.Category
	Error      string
}

type budgetFormData struct {
	Budget     core.Budget
	Predefined []core.Category
	Custom     []core.Category
	Error      string
}

func (s *Server) handleBudgetsPage(w http.ResponseWriter, r *http.Request) {
	s.renderBudgetsPage(w, r, "")
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	b, err := parseBudgetForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderBudgetsPage(w, r, err.Error())
		return
	}
	b.UserID = uid

	if _, err := s.budgets.Create(r.Context(), b); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderBudgetsPage(w, r, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Budget create failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/budgets", http.StatusSeeOther)
}

func (s *Server) handleEditBudgetPage(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	b, err := s.budgets.Get(r.Context(), uid, id)
	if errors.Is(err, core.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget load failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderBudgetForm(w, r, b, "")
}

func (s *Server) handleEditBudget(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	b, err := parseBudgetForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderBudgetForm(w, r, core.Budget{ID: id}, err.Error())
		return
	}
	b.ID = id
	b.UserID = uid

	if err := s.budgets.Update(r.Context(), b); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, core.ErrInvalidAmount) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderBudgetForm(w, r, b, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Budget update failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/budgets", http.StatusSeeOther)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.budgets.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Budget delete failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.invalidateUserViews(uid)
	http.Redirect(w, r, "/budgets", http.StatusSeeOther)
}

// parseBudgetForm reads category, limit and frequency from the form. The
// frequency must be one of the four known values; unlike reporting periods,
// a budget's own window is always explicit.
func parseBudgetForm(r *http.Request) (core.Budget, error) {
	if err := r.ParseForm(); err != nil {
		return core.Budget{}, errors.New("invalid form data")
	}

	categoryID, err := parseFormID(r.Form.Get("category_id"))
	if err != nil {
		return core.Budget{}, errors.New("invalid category")
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("limit"))
	if err != nil {
		return core.Budget{}, errors.New("invalid limit")
	}

	freq := core.Frequency(r.Form.Get("frequency"))
	if !freq.Valid() {
		return core.Budget{}, errors.New("invalid frequency")
	}

	return core.Budget{
		CategoryID: categoryID,
		Limit:      core.Money{Cents: cents},
		Frequency:  freq,
	}, nil
}

func (s *Server) renderBudgetsPage(w http.ResponseWriter, r *http.Request, formErr string) {
	uid := userID(r)

	usage, err := s.budgets.Usage(r.Context(), uid, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget usage failed", "user_id", uid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	predefined, custom, err := s.transactions.Categories(r.Context(), uid)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "budgets.html", budgetsPageData{
		Budgets:    usage,
		Predefined: predefined,
		Custom:     custom,
		Error:      formErr,
	})
}

func (s *Server) renderBudgetForm(w http.ResponseWriter, r *http.Request, b core.Budget, formErr string) {
	predefined, custom, err := s.transactions.Categories(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "budget_form.html", budgetFormData{
		Budget:     b,
		Predefined: predefined,
		Custom:     custom,
		Error:      formErr,
	})
}

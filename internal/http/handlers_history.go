package http

import (
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type historyPageData struct {
	View services.HistoryView
	Sort core.SortOrder
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	order := core.ParseSortOrder(r.URL.Query().Get("sort"))

	view, err := s.budgets.History(r.Context(), uid, order, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "History load failed",
			"user_id", uid,
			"error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "history.html", historyPageData{View: view, Sort: order})
}

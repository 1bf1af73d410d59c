package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type dashboardPageData struct {
	View       services.DashboardView
	PeriodName string
	From       string
	To         string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	period := periodFromQuery(r)

	key := dashboardCacheKey(uid, period)
	view, ok := s.dashCache.Get(key)
	if !ok {
		var err error
		view, err = s.dashboards.Dashboard(r.Context(), uid, period, time.Now())
		if err != nil {
			slog.ErrorContext(r.Context(), "Dashboard aggregation failed",
				"user_id", uid,
				"period", period.String(),
				"error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.dashCache.Set(key, view)
	}

	data := dashboardPageData{
		View:       view,
		PeriodName: period.String(),
	}
	if period.Kind == core.PeriodCustom {
		data.From = period.From.ISO()
		data.To = period.To.ISO()
	}
	s.render(w, r, "dashboard.html", data)
}

func dashboardCacheKey(userID int64, p core.Period) string {
	key := userCachePrefix(userID) + string(p.Kind)
	if p.Kind == core.PeriodCustom {
		key += ":" + p.From.ISO() + ":" + p.To.ISO()
	}
	return key
}

func userCachePrefix(userID int64) string {
	return strconv.FormatInt(userID, 10) + ":"
}

// invalidateUserViews drops every cached view of one user. Called after any
// write that can change what the dashboard shows.
func (s *Server) invalidateUserViews(userID int64) {
	s.dashCache.DeletePrefix(userCachePrefix(userID))
}

package api

import (
	"net/http"

	"github.com/quizdeck/backend/internal/web"
)

type homeView struct {
	TotalQuestions int
	Themes         []string
}

// health reports that the server is up.
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	themes, err := h.quiz.Themes(r.Context())
	if h.handlePageError(w, err, "themes") {
		return
	}
	total, err := h.quiz.CountQuestions(r.Context())
	if h.handlePageError(w, err, "questions") {
		return
	}
	h.render(w, web.PageHome, homeView{TotalQuestions: total, Themes: themes})
}

// GET /dashboard
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	d, err := h.quiz.Dashboard(r.Context())
	if h.handlePageError(w, err, "dashboard") {
		return
	}
	h.render(w, web.PageDashboard, d)
}

// dashboard returns the aggregate statistics over all completed sessions.
// @Summary      Statistics dashboard
// @Description  Overall score, per-theme statistics and the history of completed sessions.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  stats.Dashboard
// @Failure      500  {object}  errorResponse
// @Router       /api/dashboard [get]
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.quiz.Dashboard(r.Context())
	if h.handleServiceError(w, err, "dashboard") {
		return
	}
	respondJSON(w, http.StatusOK, d)
}

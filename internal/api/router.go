// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every endpoint onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Pages
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /dashboard", h.dashboardPage)
	mux.HandleFunc("GET /quiz/config", h.configPage)
	mux.HandleFunc("GET /quiz/{session_id}", h.quizPage)
	mux.HandleFunc("GET /quiz/{session_id}/results", h.resultsPage)

	// Quiz
	mux.HandleFunc("POST /quiz/config", h.createQuiz)
	mux.HandleFunc("POST /quiz/config/questions-count", h.questionsCount)
	mux.HandleFunc("POST /quiz/{session_id}/answer", h.submitAnswer)

	// JSON views
	mux.HandleFunc("GET /api/dashboard", h.dashboard)
	mux.HandleFunc("GET /api/quiz/{session_id}/results", h.results)
}

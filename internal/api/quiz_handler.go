package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
	"github.com/quizdeck/backend/internal/service"
	"github.com/quizdeck/backend/internal/web"
)

// defaultNumQuestions is used when a quiz configuration omits num_questions.
const defaultNumQuestions = 10

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuizRequest struct {
	Themes          []string `json:"themes" validate:"required,min=1,dive,required"`
	NumQuestions    *int     `json:"num_questions" validate:"omitempty,gt=0"`
	ShowAnswers     string   `json:"show_answers"`
	QuestionFilters []string `json:"question_filters"`
}

type CreateQuizResponse struct {
	SessionID   int64  `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

type QuestionsCountRequest struct {
	Themes          []string `json:"themes"`
	QuestionFilters []string `json:"question_filters"`
}

type QuestionsCountResponse struct {
	Count int `json:"count"`
}

type SubmitAnswerRequest struct {
	QuestionID int64 `json:"question_id" validate:"gt=0"`
	Answer     *int  `json:"answer" validate:"required,min=0"`
}

type configView struct {
	Themes []string
}

type quizView struct {
	SessionID int64
	Number    int
	Total     int
	Question  *question.Question
	RevealNow bool
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /quiz/config
func (h *Handler) configPage(w http.ResponseWriter, r *http.Request) {
	themes, err := h.quiz.Themes(r.Context())
	if h.handlePageError(w, err, "themes") {
		return
	}
	h.render(w, web.PageConfig, configView{Themes: themes})
}

// createQuiz starts a quiz for the calling visitor.
// @Summary      Start a quiz
// @Description  Select questions for the given themes and filters and start a quiz session. num_questions defaults to 10.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      CreateQuizRequest  true  "Quiz configuration"
// @Success      200   {object}  CreateQuizResponse
// @Failure      400   {object}  errorResponse  "invalid configuration or no eligible questions"
// @Failure      500   {object}  errorResponse
// @Router       /quiz/config [post]
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	numQuestions := defaultNumQuestions
	if req.NumQuestions != nil {
		numQuestions = *req.NumQuestions
	}

	sess, err := h.quiz.StartQuiz(r.Context(), VisitorToken(r.Context()), service.Config{
		Themes:          req.Themes,
		NumQuestions:    numQuestions,
		ShowAnswers:     req.ShowAnswers,
		QuestionFilters: req.QuestionFilters,
	})
	if h.handleServiceError(w, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusOK, CreateQuizResponse{
		SessionID:   sess.ID,
		RedirectURL: fmt.Sprintf("/quiz/%d", sess.ID),
	})
}

// questionsCount counts the questions a configuration would draw from.
// @Summary      Count eligible questions
// @Description  Number of questions matching the themes and filters. No themes yields 0.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      QuestionsCountRequest  true  "Themes and filters"
// @Success      200   {object}  QuestionsCountResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /quiz/config/questions-count [post]
func (h *Handler) questionsCount(w http.ResponseWriter, r *http.Request) {
	var req QuestionsCountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.quiz.CountEligible(r.Context(), req.Themes, req.QuestionFilters)
	if h.handleServiceError(w, err, "questions") {
		return
	}
	respondJSON(w, http.StatusOK, QuestionsCountResponse{Count: n})
}

// GET /quiz/{session_id}
func (h *Handler) quizPage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, false)
	if !ok {
		return
	}

	cur, done, err := h.quiz.Current(r.Context(), VisitorToken(r.Context()), id)
	if errors.Is(err, service.ErrNoActiveQuiz) {
		http.Redirect(w, r, "/quiz/config", http.StatusSeeOther)
		return
	}
	if h.handlePageError(w, err, "session") {
		return
	}
	if done {
		http.Redirect(w, r, fmt.Sprintf("/quiz/%d/results", id), http.StatusSeeOther)
		return
	}

	h.render(w, web.PageQuiz, quizView{
		SessionID: cur.SessionID,
		Number:    cur.Number,
		Total:     cur.Total,
		Question:  cur.Question,
		RevealNow: cur.ShowAnswers == quizsession.RevealImmediately,
	})
}

// submitAnswer records the answer to the current question.
// @Summary      Answer a question
// @Description  Answer the current question, or change the answer to one already answered. The session completes with the last answer.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        session_id  path      int                  true  "Session ID"
// @Param        body        body      SubmitAnswerRequest  true  "Answer"
// @Success      200         {object}  service.Feedback
// @Failure      400         {object}  errorResponse  "invalid answer or not the current question"
// @Failure      404         {object}  errorResponse  "question not found"
// @Failure      409         {object}  errorResponse  "no active quiz"
// @Failure      500         {object}  errorResponse
// @Router       /quiz/{session_id}/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, true)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fb, err := h.quiz.SubmitAnswer(r.Context(), VisitorToken(r.Context()), id, req.QuestionID, *req.Answer)
	if h.handleServiceError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, fb)
}

// GET /quiz/{session_id}/results
func (h *Handler) resultsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, false)
	if !ok {
		return
	}

	res, err := h.quiz.Results(r.Context(), VisitorToken(r.Context()), id)
	if h.handlePageError(w, err, "session") {
		return
	}
	h.render(w, web.PageResults, res)
}

// results returns the scored results of a session.
// @Summary      Quiz results
// @Description  Per-question results and per-theme breakdown of a quiz session.
// @Tags         Quiz
// @Produce      json
// @Param        session_id  path      int  true  "Session ID"
// @Success      200         {object}  service.Results
// @Failure      404         {object}  errorResponse  "session not found"
// @Failure      500         {object}  errorResponse
// @Router       /api/quiz/{session_id}/results [get]
func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, true)
	if !ok {
		return
	}

	res, err := h.quiz.Results(r.Context(), VisitorToken(r.Context()), id)
	if h.handleServiceError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

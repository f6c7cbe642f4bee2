package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quizdeck/backend/internal/api"
	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/service"
	"github.com/quizdeck/backend/internal/store"
	"github.com/quizdeck/backend/internal/visitor"
	"github.com/quizdeck/backend/internal/web"
)

type testServer struct {
	handler  http.Handler
	store    *store.SQLiteStore
	visitors *visitor.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	views, err := web.New()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := visitor.NewMemoryStore()
	svc := service.NewQuizService(s, v, logger, time.Hour)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(svc, views, logger))

	return &testServer{
		handler:  api.Logging(logger)(api.CORS(api.Visitor(false)(mux))),
		store:    s,
		visitors: v,
	}
}

func (ts *testServer) addQuestion(t *testing.T, theme string, correct int) *question.Question {
	t.Helper()
	q, err := question.New("What about "+theme+"?", []string{"one", "two", "three"}, correct, "see docs", theme)
	if err != nil {
		t.Fatalf("invalid question: %v", err)
	}
	if err := ts.store.SaveQuestion(context.Background(), q); err != nil {
		t.Fatalf("failed to save question: %v", err)
	}
	return q
}

// do sends a request as the visitor identified by cookie ("" for a new visitor).
func (ts *testServer) do(t *testing.T, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: api.VisitorCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// newVisitor returns the token the server issues to a first-time visitor.
func (ts *testServer) newVisitor(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == api.VisitorCookie {
			return c.Value
		}
	}
	t.Fatal("no visitor cookie issued")
	return ""
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestVisitorCookie(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newVisitor(t)
	if token == "" {
		t.Fatal("expected a token")
	}

	rec := ts.do(t, http.MethodGet, "/health", token, nil)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a valid cookie must not be reissued")
	}

	rec = ts.do(t, http.MethodGet, "/health", "not-a-token", nil)
	if len(rec.Result().Cookies()) != 1 {
		t.Error("a malformed cookie must be replaced")
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodOptions, "/quiz/config", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestCreateQuiz_Invalid(t *testing.T) {
	ts := newTestServer(t)
	ts.addQuestion(t, "A", 0)
	token := ts.newVisitor(t)

	tests := []struct {
		name string
		body any
	}{
		{"no themes", map[string]any{"themes": []string{}, "num_questions": 1}},
		{"zero questions", map[string]any{"themes": []string{"A"}, "num_questions": 0}},
		{"negative questions", map[string]any{"themes": []string{"A"}, "num_questions": -3}},
		{"empty filters", map[string]any{"themes": []string{"A"}, "num_questions": 1, "question_filters": []string{}}},
		{"unknown filter", map[string]any{"themes": []string{"A"}, "num_questions": 1, "question_filters": []string{"hard"}}},
		{"nothing eligible", map[string]any{"themes": []string{"Nope"}, "num_questions": 1}},
		{"not json", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/quiz/config", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if resp := decode[map[string]string](t, rec); resp["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestQuestionsCount(t *testing.T) {
	ts := newTestServer(t)
	ts.addQuestion(t, "A", 0)
	ts.addQuestion(t, "A", 0)
	ts.addQuestion(t, "B", 0)

	rec := ts.do(t, http.MethodPost, "/quiz/config/questions-count", "", map[string]any{
		"themes": []string{"A"}, "question_filters": []string{"new"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[api.QuestionsCountResponse](t, rec); got.Count != 2 {
		t.Errorf("expected 2, got %d", got.Count)
	}

	rec = ts.do(t, http.MethodPost, "/quiz/config/questions-count", "", map[string]any{"themes": []string{}})
	if got := decode[api.QuestionsCountResponse](t, rec); got.Count != 0 {
		t.Errorf("expected 0 for no themes, got %d", got.Count)
	}
}

func TestQuizFlow(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 3; i++ {
		ts.addQuestion(t, "A", 1)
	}
	token := ts.newVisitor(t)

	rec := ts.do(t, http.MethodPost, "/quiz/config", token, map[string]any{
		"themes": []string{"A"}, "num_questions": 3, "show_answers": "go",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create quiz: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[api.CreateQuizResponse](t, rec)
	if created.RedirectURL != fmt.Sprintf("/quiz/%d", created.SessionID) {
		t.Errorf("unexpected redirect url %q", created.RedirectURL)
	}

	rec = ts.do(t, http.MethodGet, created.RedirectURL, token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Question 1 of 3") {
		t.Fatalf("quiz page: got %d", rec.Code)
	}

	p, err := ts.visitors.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	answerPath := fmt.Sprintf("/quiz/%d/answer", created.SessionID)
	rec = ts.do(t, http.MethodPost, answerPath, token, map[string]any{"question_id": p.QuestionIDs[1], "answer": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("answering ahead of the current question: expected 400, got %d", rec.Code)
	}
	for i, qid := range p.QuestionIDs {
		answer := 1
		if i == 2 {
			answer = 0
		}
		rec = ts.do(t, http.MethodPost, answerPath, token, map[string]any{"question_id": qid, "answer": answer})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
		fb := decode[service.Feedback](t, rec)
		if fb.IsCorrect != (i != 2) || fb.CorrectAnswer != 1 || fb.Completed != (i == 2) {
			t.Errorf("answer %d: unexpected feedback %+v", i, fb)
		}
	}

	rec = ts.do(t, http.MethodGet, created.RedirectURL, token, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != created.RedirectURL+"/results" {
		t.Fatalf("expected redirect to results, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = ts.do(t, http.MethodGet, created.RedirectURL+"/results", token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "66.7%") {
		t.Fatalf("results page: got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/quiz/%d/results", created.SessionID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("results json: got %d", rec.Code)
	}
	res := decode[service.Results](t, rec)
	if res.Score != 66.7 || res.TotalCount != 3 || len(res.Results) != 3 {
		t.Errorf("unexpected results: %+v", res)
	}

	rec = ts.do(t, http.MethodGet, "/api/dashboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: got %d", rec.Code)
	}
	if rec = ts.do(t, http.MethodGet, "/dashboard", "", nil); rec.Code != http.StatusOK {
		t.Errorf("dashboard page: got %d", rec.Code)
	}
}

func TestSubmitAnswer_Errors(t *testing.T) {
	ts := newTestServer(t)
	q := ts.addQuestion(t, "A", 0)
	token := ts.newVisitor(t)

	rec := ts.do(t, http.MethodPost, "/quiz/config", token, map[string]any{"themes": []string{"A"}, "num_questions": 1})
	created := decode[api.CreateQuizResponse](t, rec)
	path := fmt.Sprintf("/quiz/%d/answer", created.SessionID)

	tests := []struct {
		name   string
		cookie string
		path   string
		body   any
		want   int
	}{
		{"missing answer", token, path, map[string]any{"question_id": q.ID}, http.StatusBadRequest},
		{"negative answer", token, path, map[string]any{"question_id": q.ID, "answer": -1}, http.StatusBadRequest},
		{"foreign question", token, path, map[string]any{"question_id": q.ID + 50, "answer": 0}, http.StatusBadRequest},
		{"option out of range", token, path, map[string]any{"question_id": q.ID, "answer": 9}, http.StatusBadRequest},
		{"no quiz for visitor", "", path, map[string]any{"question_id": q.ID, "answer": 0}, http.StatusConflict},
		{"unknown session", token, "/quiz/999/answer", map[string]any{"question_id": q.ID, "answer": 0}, http.StatusNotFound},
		{"malformed session", token, "/quiz/abc/answer", map[string]any{"question_id": q.ID, "answer": 0}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, tt.cookie, tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestQuizPage_OtherVisitor(t *testing.T) {
	ts := newTestServer(t)
	ts.addQuestion(t, "A", 0)
	token := ts.newVisitor(t)

	rec := ts.do(t, http.MethodPost, "/quiz/config", token, map[string]any{"themes": []string{"A"}, "num_questions": 1})
	created := decode[api.CreateQuizResponse](t, rec)

	rec = ts.do(t, http.MethodGet, created.RedirectURL, "", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/quiz/config" {
		t.Errorf("expected redirect to config, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = ts.do(t, http.MethodGet, "/quiz/12345", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestPages(t *testing.T) {
	ts := newTestServer(t)
	ts.addQuestion(t, "Networks", 0)

	for _, path := range []string{"/", "/quiz/config", "/dashboard"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
			t.Errorf("%s: expected html, got %q", path, rec.Header().Get("Content-Type"))
		}
	}

	if rec := ts.do(t, http.MethodGet, "/nowhere", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestCreateQuiz_DefaultNumQuestions(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 12; i++ {
		ts.addQuestion(t, "A", 0)
	}
	token := ts.newVisitor(t)

	rec := ts.do(t, http.MethodPost, "/quiz/config", token, map[string]any{"themes": []string{"A"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	p, err := ts.visitors.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Total() != 10 {
		t.Errorf("expected the default of 10 questions, got %d", p.Total())
	}
}

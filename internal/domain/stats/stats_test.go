package stats_test

import (
	"testing"
	"time"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
	"github.com/quizdeck/backend/internal/domain/stats"
)

func questions(themes map[int64]string) map[int64]*question.Question {
	qs := make(map[int64]*question.Question, len(themes))
	for id, th := range themes {
		qs[id] = &question.Question{ID: id, Theme: th}
	}
	return qs
}

func TestLatestByQuestion_HighestIDWins(t *testing.T) {
	answers := []quizsession.Answer{
		{ID: 5, SessionID: 2, QuestionID: 1, IsCorrect: false},
		{ID: 2, SessionID: 1, QuestionID: 1, IsCorrect: true},
	}

	latest := stats.LatestByQuestion(answers)
	if got := latest[1]; got.ID != 5 || got.IsCorrect {
		t.Errorf("expected answer 5 to win, got %+v", got)
	}
}

func TestBuild_DedupesRepeatedQuestions(t *testing.T) {
	in := stats.Input{
		Answers: []quizsession.Answer{
			{ID: 1, SessionID: 1, QuestionID: 1, IsCorrect: true},
			{ID: 2, SessionID: 2, QuestionID: 1, IsCorrect: false},
		},
		Questions:      questions(map[int64]string{1: "A", 2: "A"}),
		TotalQuestions: 2,
	}

	d := stats.Build(in)

	if d.TotalAnswers != 1 {
		t.Errorf("expected 1 unique answer, got %d", d.TotalAnswers)
	}
	if d.CorrectAnswers != 0 || d.IncorrectAnswers != 1 {
		t.Errorf("expected only the later incorrect answer to count, got %d correct / %d incorrect",
			d.CorrectAnswers, d.IncorrectAnswers)
	}
	if d.OverallScore != 0 {
		t.Errorf("expected overall score 0, got %v", d.OverallScore)
	}
	if d.ProgressionPercentage != 50 {
		t.Errorf("expected progression 50, got %v", d.ProgressionPercentage)
	}
}

func TestBuild_ThemeStatsSorted(t *testing.T) {
	in := stats.Input{
		Answers: []quizsession.Answer{
			{ID: 1, SessionID: 1, QuestionID: 1, IsCorrect: true},
			{ID: 2, SessionID: 1, QuestionID: 2, IsCorrect: false},
			{ID: 3, SessionID: 1, QuestionID: 3, IsCorrect: true},
			{ID: 4, SessionID: 1, QuestionID: 4, IsCorrect: true},
		},
		Questions:      questions(map[int64]string{1: "Zeta", 2: "Alpha", 3: "Alpha", 4: "Alpha"}),
		TotalQuestions: 8,
	}

	d := stats.Build(in)

	if len(d.ThemeStats) != 2 {
		t.Fatalf("expected 2 themes, got %d", len(d.ThemeStats))
	}
	alpha, zeta := d.ThemeStats[0], d.ThemeStats[1]
	if alpha.Name != "Alpha" || zeta.Name != "Zeta" {
		t.Fatalf("expected themes sorted ascending, got %q, %q", alpha.Name, zeta.Name)
	}
	if alpha.Correct != 2 || alpha.Total != 3 || alpha.Percentage != 66.7 {
		t.Errorf("unexpected Alpha stats: %+v", alpha)
	}
	if zeta.Percentage != 100 {
		t.Errorf("unexpected Zeta stats: %+v", zeta)
	}
	if d.OverallScore != 75 {
		t.Errorf("expected overall 75, got %v", d.OverallScore)
	}
}

func TestBuild_EmptyStore(t *testing.T) {
	d := stats.Build(stats.Input{})

	if d.OverallScore != 0 || d.ProgressionPercentage != 0 || d.TotalAnswers != 0 {
		t.Errorf("expected zeroed dashboard, got %+v", d)
	}
	if d.ThemeStats == nil || d.SessionHistory == nil {
		t.Error("expected empty, non-nil slices")
	}
}

func TestBuild_SessionHistory(t *testing.T) {
	var sessions []*quizsession.Session
	for i := int64(1); i <= 12; i++ {
		sessions = append(sessions, &quizsession.Session{
			ID:        i,
			Score:     100.0 / 3,
			CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		})
	}

	in := stats.Input{
		Answers: []quizsession.Answer{
			{ID: 1, SessionID: 12, QuestionID: 1, IsCorrect: true},
			{ID: 2, SessionID: 12, QuestionID: 2, IsCorrect: false},
			{ID: 3, SessionID: 11, QuestionID: 1, IsCorrect: true},
		},
		RecentSessions: sessions,
		TotalSessions:  12,
	}

	d := stats.Build(in)

	if len(d.SessionHistory) != stats.HistoryLimit {
		t.Fatalf("expected %d sessions, got %d", stats.HistoryLimit, len(d.SessionHistory))
	}
	first := d.SessionHistory[0]
	if first.SessionID != 12 || first.Correct != 1 || first.Total != 2 {
		t.Errorf("unexpected first session summary: %+v", first)
	}
	// per-session counts are not deduplicated across sessions
	if second := d.SessionHistory[1]; second.SessionID != 11 || second.Correct != 1 || second.Total != 1 {
		t.Errorf("unexpected second session summary: %+v", second)
	}
	if first.Score != 33.3 {
		t.Errorf("expected rounded score 33.3, got %v", first.Score)
	}
	if first.Date() != "01/03/2026 09:30" {
		t.Errorf("unexpected date format %q", first.Date())
	}
	if d.TotalSessions != 12 {
		t.Errorf("expected 12 total sessions, got %d", d.TotalSessions)
	}
}

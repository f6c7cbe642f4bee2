package importer_test

import (
	"strings"
	"testing"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/importer"
)

func readOne(t *testing.T, js string) importer.Record {
	t.Helper()
	records, err := importer.ReadRecords(strings.NewReader("[" + js + "]"))
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	rec, err := importer.ParseRecord(records[0])
	if err != nil {
		t.Fatalf("parse record: %v", err)
	}
	return rec
}

func TestRecord_Options(t *testing.T) {
	tests := []struct {
		name string
		js   string
		want []string
	}{
		{"list", `{"text":"q","options":["x","y","z"]}`, []string{"x", "y", "z"}},
		{"letter map", `{"text":"q","options":{"A":"x","B":"y","C":"z","D":"w"}}`, []string{"x", "y", "z", "w"}},
		{"partial map", `{"text":"q","options":{"B":"y","A":"x"}}`, []string{"x", "y", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := readOne(t, tt.js).Question()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(q.Options, "|") != strings.Join(tt.want, "|") {
				t.Errorf("expected %q, got %q", tt.want, q.Options)
			}
		})
	}
}

func TestRecord_Correct(t *testing.T) {
	tests := []struct {
		correct string
		want    int
	}{
		{`"A"`, 0},
		{`"C"`, 2},
		{`"D"`, 3},
		{`2`, 2},
		{`"3"`, 3},
		{`"E"`, 0},
		{`"b"`, 0},
		{`-1`, 0},
		{`1.5`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.correct, func(t *testing.T) {
			q, err := readOne(t, `{"text":"q","options":["a","b","c","d"],"correct":`+tt.correct+`}`).Question()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Correct != tt.want {
				t.Errorf("expected %d, got %d", tt.want, q.Correct)
			}
		})
	}
}

func TestRecord_ThemeAndExplanation(t *testing.T) {
	q, err := readOne(t, `{"text":"q","options":["a"],"theme":"  Audit  "}`).Question()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Theme != "Audit" {
		t.Errorf("expected trimmed theme, got %q", q.Theme)
	}

	q, err = readOne(t, `{"text":"q","options":["a"]}`).Question()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Theme != question.DefaultTheme {
		t.Errorf("expected default theme, got %q", q.Theme)
	}

	long := strings.Repeat("é", 1200)
	q, err = readOne(t, `{"text":"q","options":["a"],"explanation":"`+long+`"}`).Question()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(q.Explanation)); n != 1000 {
		t.Errorf("expected 1000 characters, got %d", n)
	}
	if !strings.HasSuffix(q.Explanation, "...") {
		t.Error("expected truncation marker")
	}

	exact := strings.Repeat("x", 1000)
	q, err = readOne(t, `{"text":"q","options":["a"],"explanation":"`+exact+`"}`).Question()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Explanation != exact {
		t.Error("explanations of 1000 characters must be kept as is")
	}
}

func TestRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		js   string
	}{
		{"no text", `{"options":["a"]}`},
		{"no options", `{"text":"q"}`},
		{"options not a list", `{"text":"q","options":"a"}`},
		{"correct out of range", `{"text":"q","options":["a","b"],"correct":"D"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readOne(t, tt.js).Question(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseRecord_WrongTypes(t *testing.T) {
	tests := []struct {
		name string
		js   string
	}{
		{"numeric theme", `{"text":"q","options":["a"],"theme":5}`},
		{"object text", `{"text":{"x":1},"options":["a"]}`},
		{"not an object", `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := importer.ParseRecord([]byte(tt.js)); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}

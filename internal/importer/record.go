package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quizdeck/backend/internal/domain/question"
)

const (
	maxExplanation  = 1000
	explanationKeep = 997
)

// letterKeys are the keys of the map form of options, in option order.
var letterKeys = []string{"A", "B", "C", "D"}

var errBadOptions = errors.New("options must be a list or an A-D map")

// Record is one question as found in an import file. Options and Correct
// accept several shapes and are normalized by Question.
type Record struct {
	Text        string          `json:"text"`
	Options     json.RawMessage `json:"options"`
	Correct     json.RawMessage `json:"correct"`
	Theme       string          `json:"theme"`
	Explanation string          `json:"explanation"`
}

// ReadRecords splits a JSON array into its raw elements; each one is decoded
// separately by ParseRecord.
func ReadRecords(r io.Reader) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return raw, nil
}

// ParseRecord decodes one element of an import file.
func ParseRecord(raw json.RawMessage) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Question normalizes the record into a validated question.
func (rec Record) Question() (*question.Question, error) {
	options, err := parseOptions(rec.Options)
	if err != nil {
		return nil, err
	}

	theme := strings.TrimSpace(rec.Theme)
	if theme == "" {
		theme = question.DefaultTheme
	}

	return question.New(rec.Text, options, parseCorrect(rec.Correct), truncateExplanation(rec.Explanation), theme)
}

// parseOptions accepts ["x", "y"] or {"A": "x", "B": "y", ...}. The map form
// always yields four options, missing letters becoming empty strings.
func parseOptions(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadOptions, err)
		}
		return list, nil
	case '{':
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadOptions, err)
		}
		list := make([]string, len(letterKeys))
		for i, k := range letterKeys {
			list[i] = m[k]
		}
		return list, nil
	default:
		return nil, errBadOptions
	}
}

// parseCorrect maps a letter A-D, a non-negative integer or a digit string to
// an option index. Anything else is index 0.
func parseCorrect(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		if len(s) == 1 && s[0] >= 'A' && s[0] <= 'D' {
			return int(s[0] - 'A')
		}
		return digits(s)
	}

	return digits(string(raw))
}

func digits(s string) int {
	if s == "" {
		return 0
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func truncateExplanation(s string) string {
	r := []rune(s)
	if len(r) <= maxExplanation {
		return s
	}
	return string(r[:explanationKeep]) + "..."
}

package sanitize_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/jmcelroy/docent/sanitize"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"<p>hello</p>", true},
		{"intro <strong>bold</strong>", true},
		{"<ul><li>a</li></ul>", true},
		{"plain text with < and >", false},
		{"2 < 3 and 4 > 1", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := sanitize.LooksLikeHTML(tc.text); got != tc.want {
			t.Errorf("LooksLikeHTML(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestHTMLStripsDangerousMarkup(t *testing.T) {
	s := sanitize.New()
	tests := []struct {
		name    string
		input   string
		absent  []string
		present []string
	}{
		{
			name:    "script block removed",
			input:   `<p>safe</p><script>alert(1)</script>`,
			absent:  []string{"<script", "alert"},
			present: []string{"<p>safe</p>"},
		},
		{
			name:    "event handler dropped",
			input:   `<p onclick="steal()">text</p>`,
			absent:  []string{"onclick", "steal"},
			present: []string{"text"},
		},
		{
			name:    "javascript scheme dropped",
			input:   `<a href="javascript:alert(1)">link</a>`,
			absent:  []string{"javascript:"},
			present: []string{"link"},
		},
		{
			name:    "iframe removed",
			input:   `<div><iframe src="https://evil.example"></iframe>kept</div>`,
			absent:  []string{"<iframe"},
			present: []string{"kept"},
		},
		{
			name:    "allowed image attrs survive",
			input:   `<img src="https://cdn.example/pic.png" alt="pic" data-track="x">`,
			absent:  []string{"data-track"},
			present: []string{`src="https://cdn.example/pic.png"`, `alt="pic"`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.HTML(tc.input)
			for _, a := range tc.absent {
				if strings.Contains(got, a) {
					t.Errorf("HTML(%q) = %q, should not contain %q", tc.input, got, a)
				}
			}
			for _, p := range tc.present {
				if !strings.Contains(got, p) {
					t.Errorf("HTML(%q) = %q, should contain %q", tc.input, got, p)
				}
			}
		})
	}
}

func TestTextEscapesAndStrips(t *testing.T) {
	s := sanitize.New()
	got := s.Text(`hello <script>alert(1)</script>onload= & "friends"`)
	if strings.Contains(got, "script") || strings.Contains(got, "onload=") {
		t.Errorf("Text() kept dangerous fragment: %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("Text() did not escape ampersand: %q", got)
	}
}

func TestValuePassesBooleansAndNumbersThrough(t *testing.T) {
	s := sanitize.New()
	in := map[string]any{
		"flag":  true,
		"off":   false,
		"count": float64(42),
		"ratio": 0.5,
		"label": "plain",
		"null":  nil,
	}
	got, ok := s.Value(in).(map[string]any)
	if !ok {
		t.Fatalf("Value() returned %T, want map", s.Value(in))
	}
	if got["flag"] != true || got["off"] != false {
		t.Errorf("booleans changed: %v %v", got["flag"], got["off"])
	}
	if got["count"] != float64(42) || got["ratio"] != 0.5 {
		t.Errorf("numbers changed: %v %v", got["count"], got["ratio"])
	}
	if got["null"] != nil {
		t.Errorf("nil changed: %v", got["null"])
	}
}

func TestValueIsIdempotentOnCleanContent(t *testing.T) {
	s := sanitize.New()
	in := map[string]any{
		"content": "<p>Welcome to the <strong>course</strong></p>",
		"notes":   []any{"first", float64(2), true},
	}
	once := s.Value(in)
	twice := s.Value(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitization not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestQuestionsPreserveCorrectnessFlags(t *testing.T) {
	s := sanitize.New()
	raw := `{
		"questions": [{
			"id": "q1",
			"question": "Pick one <script>alert(1)</script>",
			"options": [
				{"id": "a", "text": "Right", "isCorrect": "true"},
				{"id": "b", "text": "Wrong", "isCorrect": false},
				{"id": "c", "text": "Also wrong", "isCorrect": "0"}
			]
		}]
	}`
	var in map[string]any
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	out := s.Value(in).(map[string]any)
	qs := out["questions"].([]any)
	q := qs[0].(map[string]any)
	if strings.Contains(q["question"].(string), "script") {
		t.Errorf("question text kept script fragment: %q", q["question"])
	}
	opts := q["options"].([]any)
	wants := []bool{true, false, false}
	for i, w := range wants {
		opt := opts[i].(map[string]any)
		got, ok := opt["isCorrect"].(bool)
		if !ok {
			t.Fatalf("option %d isCorrect = %T, want native bool", i, opt["isCorrect"])
		}
		if got != w {
			t.Errorf("option %d isCorrect = %v, want %v", i, got, w)
		}
	}
}

func TestValueNeverPanicsOnAdversarialInput(t *testing.T) {
	s := sanitize.New()
	inputs := []any{
		map[string]any{"questions": "not a list"},
		map[string]any{"questions": []any{"not a map", float64(3)}},
		[]any{map[string]any{"options": []any{nil, true}}},
		map[string]any{"deep": map[string]any{"deeper": []any{map[string]any{"content": "<div onmouseover=x>hi</div>"}}}},
		struct{ X int }{X: 1},
	}
	for i, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Value() panicked on input %d: %v", i, r)
				}
			}()
			if out := s.Value(in); out == nil && in != nil {
				t.Errorf("Value() returned nil for non-nil input %d", i)
			}
		}()
	}
}

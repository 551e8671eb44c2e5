package parse

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Mapping
	}{
		{
			name: "direct JSON",
			text: `{"role": "Engineer", "score": 80}`,
			want: Mapping{"role": "Engineer", "score": float64(80)},
		},
		{
			name: "fenced JSON with language tag",
			text: "```json\n{\"role\": \"Engineer\"}\n```",
			want: Mapping{"role": "Engineer"},
		},
		{
			name: "fenced JSON without language tag",
			text: "```\n{\"ok\": true}\n```",
			want: Mapping{"ok": true},
		},
		{
			name: "JSON embedded in commentary",
			text: `Sure! Here is the result you asked for: {"skill_match": 75} Hope that helps.`,
			want: Mapping{"skill_match": float64(75)},
		},
		{
			name: "nested braces inside embedded object",
			text: `prefix {"outer": {"inner": 1}} suffix`,
			want: Mapping{"outer": map[string]any{"inner": float64(1)}},
		},
		{
			name: "braces inside string values",
			text: `{"comment": "uses {braces} inside"}`,
			want: Mapping{"comment": "uses {braces} inside"},
		},
		{
			name: "single-quoted pseudo JSON",
			text: `{'role': 'Engineer'}`,
			want: Mapping{"role": "Engineer"},
		},
		{
			name: "empty input",
			text: "",
			want: Mapping{},
		},
		{
			name: "plain refusal text",
			text: "I'm sorry, I can't produce that.",
			want: Mapping{},
		},
		{
			name: "unbalanced braces",
			text: `{"role": "Engineer"`,
			want: Mapping{},
		},
		{
			name: "JSON array is not a mapping",
			text: `["a", "b"]`,
			want: Mapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMappingFirst(t *testing.T) {
	m := Mapping{"position": "Engineer", "role": "Lead"}

	if got := m.String("role", "position"); got != "Lead" {
		t.Errorf("String(role, position) = %q, want first candidate to win", got)
	}
	if got := m.String("missing", "position"); got != "Engineer" {
		t.Errorf("String(missing, position) = %q, want alias fallback", got)
	}
	if got := m.String("nope"); got != "" {
		t.Errorf("String(nope) = %q, want empty", got)
	}
}

func TestMappingStringList(t *testing.T) {
	m := Mapping{
		"skills": []any{"Go", "  ", "SQL", float64(42)},
		"single": "Python",
	}

	if got := m.StringList("skills"); !reflect.DeepEqual(got, []string{"Go", "SQL", "42"}) {
		t.Errorf("StringList(skills) = %v", got)
	}
	if got := m.StringList("single"); !reflect.DeepEqual(got, []string{"Python"}) {
		t.Errorf("StringList(single) = %v, want bare string treated as one-element list", got)
	}
	if got := m.StringList("missing"); got == nil || len(got) != 0 {
		t.Errorf("StringList(missing) = %#v, want empty non-nil list", got)
	}
}

func TestMappingInt(t *testing.T) {
	m := Mapping{
		"float":   float64(82.6),
		"string":  "75",
		"percent": "80%",
		"text":    "high",
	}

	tests := []struct {
		key     string
		want    int
		numeric bool
	}{
		{key: "float", want: 83, numeric: true},
		{key: "string", want: 75, numeric: true},
		{key: "percent", want: 80, numeric: true},
		{key: "text", want: 0, numeric: false},
		{key: "missing", want: 0, numeric: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := m.Int(tt.key)
			if got != tt.want || ok != tt.numeric {
				t.Errorf("Int(%s) = (%d, %v), want (%d, %v)", tt.key, got, ok, tt.want, tt.numeric)
			}
		})
	}
}

func TestMappingMappingList(t *testing.T) {
	m := Mapping{
		"question_scores": []any{
			map[string]any{"score": float64(90)},
			"not a mapping",
			map[string]any{"score": float64(70)},
		},
	}

	got := m.MappingList("question_scores")
	if len(got) != 2 {
		t.Fatalf("MappingList length = %d, want non-mapping entries skipped", len(got))
	}
	if score, _ := got[1].Int("score"); score != 70 {
		t.Errorf("nested score = %d, want 70", score)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{57, 57},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDedupFold(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{
			name:  "case-insensitive dedup keeps first spelling",
			items: []string{"Go", "go", "GO", "Rust"},
			want:  []string{"Go", "Rust"},
		},
		{
			name:  "trims and drops empties",
			items: []string{"  Python ", "", "   ", "python"},
			want:  []string{"Python"},
		},
		{
			name:  "nil input",
			items: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DedupFold(tt.items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupFold(%v) = %v, want %v", tt.items, got, tt.want)
			}
		})
	}
}

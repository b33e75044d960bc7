package profile

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeFillsMissingFields(t *testing.T) {
	p, err := Normalize(map[string]any{
		"name":           42,
		"core_languages": []any{"py", "python", "Go", 7},
		"soft_skills":    "not a list",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Name != "" {
		t.Fatalf("expected empty name, got %q", p.Name)
	}
	if !reflect.DeepEqual(p.CoreLanguages, []string{"Python", "Go"}) {
		t.Fatalf("unexpected core languages: %v", p.CoreLanguages)
	}
	for i, field := range p.lists() {
		if *field == nil {
			t.Fatalf("list %s is nil", listKeys[i])
		}
	}
	if p.ExperienceLevel != (ExperienceLevels{}) {
		t.Fatalf("expected zero levels, got %+v", p.ExperienceLevel)
	}
}

func TestNormalizeExperienceLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		levels  map[string]any
		expect  ExperienceLevels
		wantErr bool
	}{
		{
			name:   "display keys",
			levels: map[string]any{"Python": float64(7), "JavaScript": float64(3), "Agentic AI": float64(5), "AI/ML": float64(2)},
			expect: ExperienceLevels{Python: 7, JavaScript: 3, AgenticAI: 5, AIML: 2},
		},
		{
			name:   "legacy keys and strings",
			levels: map[string]any{"Python": "4", "Agentic_Ai": float64(1), "AI_ML": "6"},
			expect: ExperienceLevels{Python: 4, AgenticAI: 1, AIML: 6},
		},
		{
			name:   "null values",
			levels: map[string]any{"Python": nil},
			expect: ExperienceLevels{},
		},
		{
			name:    "not a number",
			levels:  map[string]any{"Python": "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Normalize(map[string]any{"experience_level": tt.levels})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ExperienceLevel != tt.expect {
				t.Fatalf("expected %+v, got %+v", tt.expect, p.ExperienceLevel)
			}
		})
	}
}

func TestParse(t *testing.T) {
	raw := "Here you go:\n{\"name\": \" Ada \", \"core_languages\": [\"js\"], \"experience_level\": {\"AI/ML\": 3}}\nThanks!"

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Ada" || !reflect.DeepEqual(p.CoreLanguages, []string{"JavaScript"}) || p.ExperienceLevel.AIML != 3 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := Parse("no json here"); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
	if _, err := Parse("{\"name\": }"); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable for broken json, got %v", err)
	}
	if _, err := Parse(`{"experience_level": {"Python": -1}}`); err == nil {
		t.Fatal("expected validation error for negative level")
	}
	if _, err := Parse(`{"experience_level": {"Agentic AI": 8}}`); err == nil {
		t.Fatal("expected validation error for a level above 7")
	}
	if _, err := Parse(`{"experience_level": {"Python": 7, "AI/ML": 0}}`); err != nil {
		t.Fatalf("levels 0 and 7 are in range: %v", err)
	}
}

func TestMerge(t *testing.T) {
	existing := SkillProfile{
		Name:            "Ada",
		CoreLanguages:   []string{"Python", "Go"},
		SoftSkills:      []string{"Teamwork"},
		ExperienceLevel: ExperienceLevels{Python: 5, JavaScript: 2},
	}
	next := SkillProfile{
		CoreLanguages:   []string{"Go", "Rust"},
		ExperienceLevel: ExperienceLevels{Python: 3, AgenticAI: 4},
	}

	merged := Merge(existing, next)

	if merged.Name != "Ada" {
		t.Fatalf("expected previous name to survive, got %q", merged.Name)
	}
	if !reflect.DeepEqual(merged.CoreLanguages, []string{"Python", "Go", "Rust"}) {
		t.Fatalf("unexpected core languages: %v", merged.CoreLanguages)
	}
	if !reflect.DeepEqual(merged.SoftSkills, []string{"Teamwork"}) {
		t.Fatalf("unexpected soft skills: %v", merged.SoftSkills)
	}
	if len(merged.JobSearchKeywords) != 0 || merged.JobSearchKeywords == nil {
		t.Fatalf("expected empty non-nil keywords, got %#v", merged.JobSearchKeywords)
	}
	want := ExperienceLevels{Python: 5, JavaScript: 2, AgenticAI: 4}
	if merged.ExperienceLevel != want {
		t.Fatalf("expected %+v, got %+v", want, merged.ExperienceLevel)
	}

	next.Name = "Grace"
	if got := Merge(existing, next).Name; got != "Grace" {
		t.Fatalf("expected newest name, got %q", got)
	}
}

func TestExperienceLevelsJSON(t *testing.T) {
	data, err := json.Marshal(ExperienceLevels{Python: 1, JavaScript: 2, AgenticAI: 3, AIML: 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"Python":1,"JavaScript":2,"Agentic AI":3,"AI/ML":4}` {
		t.Fatalf("unexpected json: %s", data)
	}

	var legacy ExperienceLevels
	if err := json.Unmarshal([]byte(`{"Agentic_Ai": 6, "AI_ML": 2}`), &legacy); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if legacy.AgenticAI != 6 || legacy.AIML != 2 {
		t.Fatalf("unexpected legacy levels: %+v", legacy)
	}
}

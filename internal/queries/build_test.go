package queries

import (
	"reflect"
	"testing"

	"github.com/spigell/jobsai/internal/profile"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile profile.SkillProfile
		expect  []string
	}{
		{
			name:    "python only",
			profile: profile.SkillProfile{CoreLanguages: []string{"Python"}, AIMLExperience: []string{}},
			expect: []string{
				"agentic ai",
				"entry level developer",
				"junior full stack developer",
				"junior python developer",
				"junior software developer",
				"llm engineer",
				"python developer",
				"python engineer",
			},
		},
		{
			name: "agentic and ai ml",
			profile: profile.SkillProfile{
				AgenticAIExperience: []string{"LangChain"},
				AIMLExperience:      []string{"PyTorch"},
			},
			expect: []string{
				"agentic ai",
				"ai engineer",
				"entry level developer",
				"junior ai engineer",
				"junior full stack developer",
				"junior software developer",
				"langchain",
				"langchain developer",
				"llm engineer",
				"machine learning engineer",
				"ml engineer",
			},
		},
		{
			name:    "duplicates collapse",
			profile: profile.SkillProfile{CoreLanguages: []string{"Go", "go"}, AgenticAIExperience: []string{"Agentic AI"}},
			expect: []string{
				"agentic ai",
				"agentic ai developer",
				"entry level developer",
				"go developer",
				"go engineer",
				"junior full stack developer",
				"junior go developer",
				"junior software developer",
				"llm engineer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Build(tt.profile); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestBuildEmptyProfileKeepsFallbacks(t *testing.T) {
	got := Build(profile.SkillProfile{})

	for _, want := range []string{"junior software developer", "llm engineer", "agentic ai"} {
		found := false
		for _, q := range got {
			if q == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %q in %v", want, got)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	p := profile.SkillProfile{
		CoreLanguages:       []string{"Rust", "Python", "TypeScript"},
		AgenticAIExperience: []string{"CrewAI", "AutoGen"},
		AIMLExperience:      []string{"scikit-learn"},
	}

	first := Build(p)
	for i := 0; i < 10; i++ {
		if got := Build(p); !reflect.DeepEqual(first, got) {
			t.Fatalf("expected identical output, got %v and %v", first, got)
		}
	}
}

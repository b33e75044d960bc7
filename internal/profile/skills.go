// Package profile builds, merges and persists the candidate's skill profile
// and parses the questionnaire answers it is derived from.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/normalize"
)

// ErrUnparseable is returned when the model's answer holds no JSON object.
var ErrUnparseable = errors.New("llm did not return parseable json")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExperienceLevels holds the 0..7 experience score of the four tracked
// categories. The JSON keys are the display names.
type ExperienceLevels struct {
	Python     int `json:"Python" validate:"gte=0,lte=7"`
	JavaScript int `json:"JavaScript" validate:"gte=0,lte=7"`
	AgenticAI  int `json:"Agentic AI" validate:"gte=0,lte=7"`
	AIML       int `json:"AI/ML" validate:"gte=0,lte=7"`
}

// UnmarshalJSON also accepts the identifier style keys Agentic_Ai and AI_ML.
func (e *ExperienceLevels) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	levels, err := levelsFrom(raw)
	if err != nil {
		return err
	}
	*e = levels
	return nil
}

// Max returns the per-category maximum of e and other.
func (e ExperienceLevels) Max(other ExperienceLevels) ExperienceLevels {
	return ExperienceLevels{
		Python:     max(e.Python, other.Python),
		JavaScript: max(e.JavaScript, other.JavaScript),
		AgenticAI:  max(e.AgenticAI, other.AgenticAI),
		AIML:       max(e.AIML, other.AIML),
	}
}

// SkillProfile is the structured record of a candidate's competencies.
// List fields are never nil once the profile went through Normalize or Merge.
type SkillProfile struct {
	Name                   string           `json:"name"`
	CoreLanguages          []string         `json:"core_languages" validate:"dive,required"`
	FrameworksAndLibraries []string         `json:"frameworks_and_libraries" validate:"dive,required"`
	ToolsAndPlatforms      []string         `json:"tools_and_platforms" validate:"dive,required"`
	AgenticAIExperience    []string         `json:"agentic_ai_experience" validate:"dive,required"`
	AIMLExperience         []string         `json:"ai_ml_experience" validate:"dive,required"`
	SoftSkills             []string         `json:"soft_skills" validate:"dive,required"`
	ProjectsMentioned      []string         `json:"projects_mentioned" validate:"dive,required"`
	ExperienceLevel        ExperienceLevels `json:"experience_level"`
	JobSearchKeywords      []string         `json:"job_search_keywords" validate:"dive,required"`
}

// Validate checks the profile invariants.
func (p SkillProfile) Validate() error {
	return validate.Struct(p)
}

func (p *SkillProfile) lists() []*[]string {
	return []*[]string{
		&p.CoreLanguages,
		&p.FrameworksAndLibraries,
		&p.ToolsAndPlatforms,
		&p.AgenticAIExperience,
		&p.AIMLExperience,
		&p.SoftSkills,
		&p.ProjectsMentioned,
		&p.JobSearchKeywords,
	}
}

var listKeys = []string{
	"core_languages",
	"frameworks_and_libraries",
	"tools_and_platforms",
	"agentic_ai_experience",
	"ai_ml_experience",
	"soft_skills",
	"projects_mentioned",
	"job_search_keywords",
}

// Normalize turns a decoded model answer into a SkillProfile. Missing or
// mistyped lists become empty, list entries are normalized, a missing or
// non-string name becomes "" and experience levels accept numbers, numeric
// strings and the legacy keys.
func Normalize(parsed map[string]any) (SkillProfile, error) {
	var p SkillProfile

	if name, ok := parsed["name"].(string); ok {
		p.Name = strings.TrimSpace(name)
	}

	for i, field := range p.lists() {
		items, _ := parsed[listKeys[i]].([]any)
		*field = normalize.Any(items)
	}

	levels, _ := parsed["experience_level"].(map[string]any)
	el, err := levelsFrom(levels)
	if err != nil {
		return SkillProfile{}, fmt.Errorf("experience_level: %w", err)
	}
	p.ExperienceLevel = el

	return p, nil
}

// Parse extracts, decodes, normalizes and validates a profile from a raw
// model answer.
func Parse(raw string) (SkillProfile, error) {
	text, ok := llm.ExtractJSON(raw)
	if !ok {
		return SkillProfile{}, ErrUnparseable
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return SkillProfile{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	p, err := Normalize(parsed)
	if err != nil {
		return SkillProfile{}, err
	}

	if err := p.Validate(); err != nil {
		return SkillProfile{}, fmt.Errorf("validating skill profile: %w", err)
	}

	return p, nil
}

// Merge folds next into existing: lists are unioned with existing entries
// first, experience levels take the maximum and the newest non-empty name
// wins.
func Merge(existing, next SkillProfile) SkillProfile {
	merged := SkillProfile{
		Name:            next.Name,
		ExperienceLevel: existing.ExperienceLevel.Max(next.ExperienceLevel),
	}
	if merged.Name == "" {
		merged.Name = existing.Name
	}

	old, fresh, out := existing.lists(), next.lists(), merged.lists()
	for i := range out {
		*out[i] = union(*old[i], *fresh[i])
	}

	return merged
}

func union(a, b []string) []string {
	result := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

func levelsFrom(raw map[string]any) (ExperienceLevels, error) {
	var (
		levels ExperienceLevels
		err    error
	)

	lookup := func(keys ...string) int {
		for _, key := range keys {
			v, ok := raw[key]
			if !ok || err != nil {
				continue
			}
			n, convErr := coerceInt(v)
			if convErr != nil {
				err = fmt.Errorf("%s: %w", key, convErr)
				return 0
			}
			if n != 0 {
				return n
			}
		}
		return 0
	}

	levels.Python = lookup("Python")
	levels.JavaScript = lookup("JavaScript")
	levels.AgenticAI = lookup("Agentic AI", "Agentic_Ai")
	levels.AIML = lookup("AI/ML", "AI_ML")

	return levels, err
}

func coerceInt(v any) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("invalid number %v", val)
		}
		return int(val), nil
	case int:
		return val, nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value %v", val)
	}
}
